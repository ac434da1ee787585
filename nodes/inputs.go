package nodes

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/BaSui01/agentflow-nodes/retriever"
	"github.com/BaSui01/agentflow-nodes/types"
)

// ResolvedInputs 宿主引擎解析后的输入值（参数名 → 值）。
// nil 与空字符串视为未提供。
type ResolvedInputs map[string]any

// Value returns the raw value of name.
func (in ResolvedInputs) Value(name string) (any, bool) {
	v, ok := in[name]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return nil, false
	}
	return v, true
}

// String returns name as a string.
func (in ResolvedInputs) String(name string) (string, bool, error) {
	v, ok := in.Value(name)
	if !ok {
		return "", false, nil
	}
	switch s := v.(type) {
	case string:
		return s, true, nil
	case fmt.Stringer:
		return s.String(), true, nil
	default:
		return "", false, types.NewConfigurationError("input %q must be a string, got %T", name, v)
	}
}

// Number returns name as a float64. Numeric strings are accepted since the
// visual editor delivers every field as text.
func (in ResolvedInputs) Number(name string) (float64, bool, error) {
	v, ok := in.Value(name)
	if !ok {
		return 0, false, nil
	}
	var (
		f   float64
		err error
	)
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		f, err = n.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, false, types.NewConfigurationError("input %q must be a number, got %T", name, v)
	}
	if err != nil {
		return 0, false, types.NewConfigurationError("input %q must be a number", name).WithCause(err)
	}
	return f, true, nil
}

// Int returns name truncated to an int.
func (in ResolvedInputs) Int(name string) (int, bool, error) {
	f, ok, err := in.Number(name)
	if !ok || err != nil {
		return 0, ok, err
	}
	return int(f), true, nil
}

// Bool returns name as a bool.
func (in ResolvedInputs) Bool(name string) (bool, bool, error) {
	v, ok := in.Value(name)
	if !ok {
		return false, false, nil
	}
	switch b := v.(type) {
	case bool:
		return b, true, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false, types.NewConfigurationError("input %q must be a boolean", name).WithCause(err)
		}
		return parsed, true, nil
	default:
		return false, false, types.NewConfigurationError("input %q must be a boolean, got %T", name, v)
	}
}

// Retriever returns name as a retriever.Retriever.
func (in ResolvedInputs) Retriever(name string) (retriever.Retriever, bool, error) {
	v, ok := in.Value(name)
	if !ok {
		return nil, false, nil
	}
	r, isRetriever := v.(retriever.Retriever)
	if !isRetriever {
		return nil, false, types.NewConfigurationError("input %q must be a retriever, got %T", name, v)
	}
	return r, true, nil
}

// =============================================================================
// 能力标签校验
// =============================================================================

var (
	capabilityMu     sync.RWMutex
	capabilityChecks = map[ParamType]func(any) bool{
		"BaseRetriever":        isRetriever,
		"VectorStoreRetriever": isRetriever,
	}
)

func isRetriever(v any) bool {
	_, ok := v.(retriever.Retriever)
	return ok
}

// RegisterCapability 注册能力标签的校验函数
func RegisterCapability(tag ParamType, check func(any) bool) {
	capabilityMu.Lock()
	defer capabilityMu.Unlock()
	capabilityChecks[tag] = check
}

func capabilityCheck(tag ParamType) (func(any) bool, bool) {
	capabilityMu.RLock()
	defer capabilityMu.RUnlock()
	check, ok := capabilityChecks[tag]
	return check, ok
}

// Validate 按描述校验输入：必填项必须存在，已提供的值必须类型合法。
// 所有违规合并为一个 ConfigurationError。
func (in ResolvedInputs) Validate(desc NodeDescriptor) error {
	var problems []string

	for _, p := range desc.Inputs {
		v, present := in.Value(p.Name)
		if !present {
			if !p.Optional {
				problems = append(problems, fmt.Sprintf("missing required input %q", p.Name))
			}
			continue
		}

		var err error
		switch p.Type {
		case ParamString, ParamCredential:
			_, _, err = in.String(p.Name)
		case ParamNumber:
			_, _, err = in.Number(p.Name)
		case ParamBoolean:
			_, _, err = in.Bool(p.Name)
		case ParamOptions:
			var s string
			s, _, err = in.String(p.Name)
			if err == nil && !p.HasOption(s) {
				err = fmt.Errorf("input %q: %q is not a valid option", p.Name, s)
			}
		default:
			if check, ok := capabilityCheck(p.Type); ok && !check(v) {
				err = fmt.Errorf("input %q does not satisfy %s, got %T", p.Name, p.Type, v)
			}
		}
		if err != nil {
			problems = append(problems, configMessage(err))
		}
	}

	if len(problems) > 0 {
		return types.NewConfigurationError("node %s: %s", desc.Name, strings.Join(problems, "; "))
	}
	return nil
}

func configMessage(err error) string {
	if e, ok := err.(*types.Error); ok {
		return e.Message
	}
	return err.Error()
}
