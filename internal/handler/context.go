package handler

type ContextKey string

var (
	SolveJobCtx ContextKey = "solveJob"
)
