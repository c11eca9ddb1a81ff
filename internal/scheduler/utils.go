package scheduler

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// 返回最大适应度的下标，相同时取下标最小者
func bestIndex(fitnesses []int) int {
	best := 0
	for i := 1; i < len(fitnesses); i++ {
		if fitnesses[i] > fitnesses[best] {
			best = i
		}
	}
	return best
}

func meanFitness(fitnesses []int) float64 {
	if len(fitnesses) == 0 {
		return 0
	}
	sum := 0
	for _, f := range fitnesses {
		sum += f
	}
	return float64(sum) / float64(len(fitnesses))
}
