package ctxutil

import "context"

type runDataKey struct{}

// RunData identifies one command invocation across the logs it produces.
type RunData struct {
	RunID   string
	Command string
}

func WithRunData(ctx context.Context, rd *RunData) context.Context {
	return context.WithValue(ctx, runDataKey{}, rd)
}

func GetRunData(ctx context.Context) *RunData {
	if ctx == nil {
		return nil
	}
	if rd, ok := ctx.Value(runDataKey{}).(*RunData); ok {
		return rd
	}
	return nil
}
