package scheduler

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Problem: 一次排课的输入，课程与时间段在整个求解过程中保持不变
type Problem struct {
	courses   []string
	timeslots int

	// 生成染色体时为每门课程选择时间段，为 nil 时使用 assignRandomTimeslots
	assign func(p *Problem, rng *rand.Rand, ch Chromosome)
}

func NewProblem(courses []string, timeslots int) (*Problem, error) {
	if len(courses) == 0 {
		return nil, fmt.Errorf("%w: 课程列表不能为空", ErrInvalidProblem)
	}
	if timeslots <= 0 {
		return nil, fmt.Errorf("%w: 时间段数量必须大于 0（得到 %d）", ErrInvalidProblem, timeslots)
	}

	// 复制一份，防止调用方后续修改
	cs := make([]string, len(courses))
	copy(cs, courses)

	return &Problem{
		courses:   cs,
		timeslots: timeslots,
	}, nil
}

func (p *Problem) Courses() []string {
	cs := make([]string, len(p.courses))
	copy(cs, p.courses)
	return cs
}

func (p *Problem) NumCourses() int       { return len(p.courses) }
func (p *Problem) NumTimeslots() int     { return p.timeslots }
func (p *Problem) ChromosomeLength() int { return len(p.courses) * p.timeslots }

// Chromosome: 长度为 C*T 的 0/1 序列，按时间段为行展开，
// 下标 t*C+i 为 1 表示课程 i 被安排在时间段 t
type Chromosome []uint8

func (ch Chromosome) Clone() Chromosome {
	c := make(Chromosome, len(ch))
	copy(c, ch)
	return c
}

func (ch Chromosome) String() string {
	var b strings.Builder
	b.Grow(len(ch))
	for _, g := range ch {
		if g == 0 {
			b.WriteByte('0')
		} else {
			b.WriteByte('1')
		}
	}
	return b.String()
}

// ParseChromosome 是 String 的逆操作
func ParseChromosome(s string) (Chromosome, error) {
	ch := make(Chromosome, len(s))
	for i, r := range s {
		switch r {
		case '0':
			ch[i] = 0
		case '1':
			ch[i] = 1
		default:
			return nil, fmt.Errorf("第 %d 位不是 0 或 1: %q", i, r)
		}
	}
	return ch, nil
}

// CourseAssignment: 某门课程被安排到的时间段
// 不可行的染色体中一门课程可能对应 0 个或多个时间段
type CourseAssignment struct {
	Course    string
	Timeslots []int
}

// Decode 将染色体解码为 课程 -> 时间段 的映射，顺序与 Problem 中的课程顺序一致
func (p *Problem) Decode(ch Chromosome) []CourseAssignment {
	c := p.NumCourses()
	assignments := make([]CourseAssignment, c)
	for i, course := range p.courses {
		assignments[i] = CourseAssignment{
			Course:    course,
			Timeslots: []int{},
		}
	}

	for t := 0; t < p.timeslots; t++ {
		for i := 0; i < c; i++ {
			if ch[t*c+i] != 0 {
				assignments[i].Timeslots = append(assignments[i].Timeslots, t)
			}
		}
	}

	return assignments
}

// Penalty: 适应度的两个组成部分
type Penalty struct {
	Overlap     int // 同一时间段多于一门课程
	CourseCount int // 课程没有恰好被安排一次
}

func (pn Penalty) Fitness() int {
	return -(pn.Overlap + pn.CourseCount)
}

// 遗传算法参数
type Parameters struct {
	PopulationSize int32   // 种群大小
	MaxGenerations int32   // 迭代次数（固定，不做收敛判断）
	MutationRate   float64 // 每一位的翻转概率
	TournamentSize int32   // 锦标赛规模，仅锦标赛选择使用
	Workers        int32   // 并行计算适应度的协程数，<= 1 表示串行
}

func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize: 10,
		MaxGenerations: 100,
		MutationRate:   0.1,
		TournamentSize: 3,
		Workers:        1,
	}
}

func (p Parameters) Validate() error {
	if p.PopulationSize < 2 {
		return fmt.Errorf("%w: 种群大小必须至少为 2（得到 %d）", ErrInvalidParameters, p.PopulationSize)
	}
	if p.MaxGenerations < 0 {
		return fmt.Errorf("%w: 迭代次数不能为负数（得到 %d）", ErrInvalidParameters, p.MaxGenerations)
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("%w: 变异概率必须在 [0,1] 之间（得到 %f）", ErrInvalidParameters, p.MutationRate)
	}
	if p.TournamentSize < 1 {
		return fmt.Errorf("%w: 锦标赛规模必须大于 0（得到 %d）", ErrInvalidParameters, p.TournamentSize)
	}
	return nil
}

// GenerationReport: 每一代结束后交给 Observer 的快照
type GenerationReport struct {
	Variant     string
	Generation  int
	Fitnesses   []int
	BestFitness int
	MeanFitness float64
	Best        Chromosome
}

// Result: 最终种群中适应度最高的个体
type Result struct {
	Variant     string
	Chromosome  Chromosome
	Fitness     int
	Penalty     Penalty
	Generations int
	Assignment  []CourseAssignment
	Duration    time.Duration
}
