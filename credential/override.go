package credential

import "context"

type overrideKey struct{}

// WithOverride 在 ctx 中写入单次请求的凭据覆盖。
// 覆盖只通过 context 传递，不从 API JSON 反序列化。
func WithOverride(ctx context.Context, rec Record) context.Context {
	if rec.ID == "" {
		return ctx
	}
	overrides, _ := ctx.Value(overrideKey{}).(map[string]Record)
	next := make(map[string]Record, len(overrides)+1)
	for k, v := range overrides {
		next[k] = v
	}
	next[rec.ID] = rec
	return context.WithValue(ctx, overrideKey{}, next)
}

// OverrideFromContext 读取 id 对应的凭据覆盖。
func OverrideFromContext(ctx context.Context, id string) (Record, bool) {
	overrides, ok := ctx.Value(overrideKey{}).(map[string]Record)
	if !ok {
		return Record{}, false
	}
	rec, ok := overrides[id]
	return rec, ok
}
