// Package credential 解析节点凭据槽对应的密钥记录。
package credential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound 凭据不存在
var ErrNotFound = errors.New("credential not found")

// Record 一条凭据记录，Name 为凭据类型（如 cohereApi），Data 为明文参数。
type Record struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Data map[string]string `json:"-"`
}

// String 屏蔽 Data 中的敏感值。
func (r Record) String() string {
	return fmt.Sprintf("Record{ID:%s, Name:%s, Data:%d keys}", r.ID, r.Name, len(r.Data))
}

// MarshalJSON 只输出键名，不输出密钥值。
func (r Record) MarshalJSON() ([]byte, error) {
	keys := make(map[string]string, len(r.Data))
	for k, v := range r.Data {
		if v != "" {
			keys[k] = "***"
		}
	}
	type masked struct {
		ID   string            `json:"id"`
		Name string            `json:"name"`
		Data map[string]string `json:"data,omitempty"`
	}
	return json.Marshal(masked{ID: r.ID, Name: r.Name, Data: keys})
}

// Resolver 根据凭据 ID 取回凭据记录。
type Resolver interface {
	GetCredentialData(ctx context.Context, id string) (Record, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, id string) (Record, error)

// GetCredentialData calls f.
func (f ResolverFunc) GetCredentialData(ctx context.Context, id string) (Record, error) {
	return f(ctx, id)
}

// GetCredentialParam 读取记录中的参数，缺失时返回空串。
func GetCredentialParam(key string, record Record) string {
	if record.Data == nil {
		return ""
	}
	return record.Data[key]
}

// Chain 依次尝试多个 Resolver：ErrNotFound 时继续，其他错误直接返回。
// 请求级覆盖（WithOverride）优先于所有 Resolver。
type Chain []Resolver

// GetCredentialData implements Resolver.
func (c Chain) GetCredentialData(ctx context.Context, id string) (Record, error) {
	if rec, ok := OverrideFromContext(ctx, id); ok {
		return rec, nil
	}
	for _, r := range c {
		if r == nil {
			continue
		}
		rec, err := r.GetCredentialData(ctx, id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func encodeData(data map[string]string) (string, error) {
	if data == nil {
		data = map[string]string{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode credential data: %w", err)
	}
	return string(raw), nil
}

func decodeData(raw string) (map[string]string, error) {
	data := map[string]string{}
	if raw == "" {
		return data, nil
	}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode credential data: %w", err)
	}
	return data, nil
}
