package scheduler

import "fmt"

const (
	VariantRouletteSinglePoint   = "roulette_single_point"
	VariantTournamentSinglePoint = "tournament_single_point"
	VariantRouletteTwoPoint      = "roulette_two_point"
)

// 三种变体只在选择策略与交叉算子上不同
var Variants = []string{
	VariantRouletteSinglePoint,
	VariantTournamentSinglePoint,
	VariantRouletteTwoPoint,
}

func variantOptions(name string, parameters Parameters) ([]Option, error) {
	switch name {
	case VariantRouletteSinglePoint:
		return []Option{
			WithSelector(RouletteSelector{}),
			WithCrossover(SinglePointCrossover),
		}, nil
	case VariantTournamentSinglePoint:
		return []Option{
			WithSelector(TournamentSelector{Size: int(parameters.TournamentSize)}),
			WithCrossover(SinglePointCrossover),
		}, nil
	case VariantRouletteTwoPoint:
		return []Option{
			WithSelector(RouletteSelector{}),
			WithCrossover(TwoPointCrossover),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
}

// NewVariant 按名称组装一个 Scheduler，opts 在变体自身的配置之后生效
func NewVariant(name string, parameters Parameters, problem *Problem, opts ...Option) (*Scheduler, error) {
	vopts, err := variantOptions(name, parameters)
	if err != nil {
		return nil, err
	}

	all := make([]Option, 0, len(vopts)+len(opts)+1)
	all = append(all, vopts...)
	all = append(all, withVariant(name))
	all = append(all, opts...)

	return New(parameters, problem, all...)
}
