package scheduler

import "math/rand"

// Selector 从种群中选出一个父本，fitnesses 与 pop 一一对应
type Selector interface {
	Select(rng *rand.Rand, pop []Chromosome, fitnesses []int) Chromosome
}

// 使用轮盘赌来进行选择
type RouletteSelector struct{}

func (RouletteSelector) Select(rng *rand.Rand, pop []Chromosome, fitnesses []int) Chromosome {
	total := 0
	for _, f := range fitnesses {
		total += f
	}

	// 适应度总和非正时轮盘赌没有意义，所有个体都被惩罚过，直接随机选一个
	if total <= 0 {
		return pop[rng.Intn(len(pop))]
	}

	pick := rng.Float64() * float64(total)
	current := 0.0
	for i, f := range fitnesses {
		current += float64(f)
		if current > pick {
			return pop[i]
		}
	}

	// 浮点误差导致没有选中
	return pop[rng.Intn(len(pop))]
}

// 锦标赛选择：不放回地抽取 Size 个个体，取适应度严格最大者（相同则取先抽到的）
type TournamentSelector struct {
	Size int

	// 抽取下标的方式，为 nil 时使用 rng.Perm
	Sample func(rng *rand.Rand, n, k int) []int
}

func (s TournamentSelector) Select(rng *rand.Rand, pop []Chromosome, fitnesses []int) Chromosome {
	k := clamp(s.Size, 1, len(pop))

	sample := s.Sample
	if sample == nil {
		sample = sampleWithoutReplacement
	}
	indices := sample(rng, len(pop), k)

	best := indices[0]
	for _, idx := range indices[1:] {
		if fitnesses[idx] > fitnesses[best] {
			best = idx
		}
	}
	return pop[best]
}

func sampleWithoutReplacement(rng *rand.Rand, n, k int) []int {
	return rng.Perm(n)[:k]
}
