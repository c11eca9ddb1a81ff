package scheduler

import "log/slog"

// Observer 在每一代评估完成后被调用，不能修改 report 中的切片
type Observer interface {
	OnGeneration(report GenerationReport)
}

type ObserverFunc func(report GenerationReport)

func (f ObserverFunc) OnGeneration(report GenerationReport) { f(report) }

// Observers 将多个 Observer 合并为一个，nil 会被忽略
func Observers(observers ...Observer) Observer {
	var list multiObserver
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) OnGeneration(report GenerationReport) {
	for _, o := range m {
		o.OnGeneration(report)
	}
}

// LogObserver 把每一代的种群情况写到日志中
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnGeneration(report GenerationReport) {
	o.logger.Debug("完成一代进化",
		"variant", report.Variant,
		"generation", report.Generation,
		"best", report.BestFitness,
		"mean", report.MeanFitness,
		"bestChromosome", report.Best.String(),
		"fitnesses", report.Fitnesses,
	)
}
