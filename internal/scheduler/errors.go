package scheduler

import "errors"

var (
	// 一整代个体的适应度都等于 WorstFitness，搜索已经退化，无法继续
	ErrDegeneratePopulation = errors.New("种群中所有染色体的适应度均为最差值")
	// 随机生成的染色体不满足 每门课程恰好一个时间段
	ErrConstructionInvariant = errors.New("生成的染色体违反构造约束")
	ErrInvalidParameters     = errors.New("遗传算法参数无效")
	ErrInvalidProblem        = errors.New("排课问题无效")
	ErrUnknownVariant        = errors.New("未知的算法变体")
)
