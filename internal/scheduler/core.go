package scheduler

import (
	"fmt"
	"math/rand"
)

// 生成染色体时允许的最大重试次数
const MaxGenerateAttempts = 10

// Generate 随机生成一个染色体：每门课程随机选一个时间段
func (p *Problem) Generate(rng *rand.Rand) (Chromosome, error) {
	assign := p.assign
	if assign == nil {
		assign = assignRandomTimeslots
	}

	for attempt := 0; attempt < MaxGenerateAttempts; attempt++ {
		ch := make(Chromosome, p.ChromosomeLength())
		assign(p, rng, ch)

		// 按构造方式这里一定成立，只有生成逻辑被改坏时才会重试
		if p.scheduledExactlyOnce(ch) {
			return ch, nil
		}
	}

	return nil, fmt.Errorf("%w: 重试 %d 次后仍然失败", ErrConstructionInvariant, MaxGenerateAttempts)
}

func assignRandomTimeslots(p *Problem, rng *rand.Rand, ch Chromosome) {
	c := p.NumCourses()
	for i := 0; i < c; i++ {
		t := rng.Intn(p.timeslots)
		ch[t*c+i] = 1
	}
}

func (p *Problem) scheduledExactlyOnce(ch Chromosome) bool {
	c := p.NumCourses()
	for i := 0; i < c; i++ {
		cnt := 0
		for t := 0; t < p.timeslots; t++ {
			cnt += int(ch[t*c+i])
		}
		if cnt != 1 {
			return false
		}
	}
	return true
}

/**
 * 计算染色体的惩罚项
 * fitness = -(overlapPenalty + courseCountPenalty)
 * 其中:
 * 		1. overlapPenalty 为冲突惩罚，某个时间段有 n (n > 1) 门课程时记 n-1
 * 		2. courseCountPenalty 为课程次数惩罚，每门课程记 |出现次数 - 1|
 */
func (p *Problem) Evaluate(ch Chromosome) Penalty {
	c := p.NumCourses()
	courseCount := make([]int, c)

	var pn Penalty
	for t := 0; t < p.timeslots; t++ {
		segment := ch[t*c : (t+1)*c]

		active := 0
		for i, g := range segment {
			active += int(g)
			courseCount[i] += int(g)
		}
		if active > 1 {
			pn.Overlap += active - 1
		}
	}

	for _, cnt := range courseCount {
		if cnt > 1 {
			pn.CourseCount += cnt - 1
		} else {
			pn.CourseCount += 1 - cnt
		}
	}

	return pn
}

func (p *Problem) Fitness(ch Chromosome) int {
	return p.Evaluate(ch).Fitness()
}

// WorstFitness 是该问题下适应度能取到的最小值。
// 设染色体中有 k 个 1，分布在 s 个非空时间段、c 个非空课程上，则惩罚为 2k - s - 2c + C，
// 最大值只可能出现在全 0（惩罚 C）或全 1（惩罚 2CT - C - T）两种染色体上。
func (p *Problem) WorstFitness() int {
	c, t := p.NumCourses(), p.timeslots
	return -max(c, 2*c*t-c-t)
}

// Crossover: 交叉算子，返回两个新的子代，不修改父代
type Crossover func(rng *rand.Rand, p1, p2 Chromosome) (Chromosome, Chromosome)

// 单点交叉
func SinglePointCrossover(rng *rand.Rand, p1, p2 Chromosome) (Chromosome, Chromosome) {
	length := len(p1)
	if length < 2 {
		return p1.Clone(), p2.Clone()
	}

	// 切点在 [1, length-1] 中随机选择
	point := 1 + rng.Intn(length-1)
	return singlePointCrossoverAt(p1, p2, point)
}

func singlePointCrossoverAt(p1, p2 Chromosome, point int) (Chromosome, Chromosome) {
	c1 := make(Chromosome, 0, len(p1))
	c1 = append(c1, p1[:point]...)
	c1 = append(c1, p2[point:]...)

	c2 := make(Chromosome, 0, len(p2))
	c2 = append(c2, p2[:point]...)
	c2 = append(c2, p1[point:]...)

	return c1, c2
}

// 两点交叉：交换 [point1, point2) 之间的基因
func TwoPointCrossover(rng *rand.Rand, p1, p2 Chromosome) (Chromosome, Chromosome) {
	length := len(p1)
	if length < 2 {
		return p1.Clone(), p2.Clone()
	}

	point1, point2 := pickTwoPoints(rng, length)
	return twoPointCrossoverAt(p1, p2, point1, point2)
}

// point1 在 [0, length-2] 中选择，point2 在 [point1+1, length-1] 中选择
func pickTwoPoints(rng *rand.Rand, length int) (int, int) {
	point1 := rng.Intn(length - 1)
	point2 := point1 + 1 + rng.Intn(length-1-point1)
	return point1, point2
}

func twoPointCrossoverAt(p1, p2 Chromosome, point1, point2 int) (Chromosome, Chromosome) {
	c1 := p1.Clone()
	c2 := p2.Clone()
	for i := point1; i < point2; i++ {
		c1[i], c2[i] = p2[i], p1[i]
	}
	return c1, c2
}

// 变异
// 每一位独立地以 rate 的概率翻转；直接修改传入的染色体并返回它
func Mutate(rng *rand.Rand, ch Chromosome, rate float64) Chromosome {
	for i := range ch {
		if rng.Float64() < rate {
			ch[i] = 1 - ch[i]
		}
	}
	return ch
}
