package nodes

// ParamType 参数类型。基础类型之外的取值视为能力标签（如 VectorStoreRetriever），
// 要求连线传入的对象满足对应接口。
type ParamType string

const (
	ParamString     ParamType = "string"
	ParamNumber     ParamType = "number"
	ParamBoolean    ParamType = "boolean"
	ParamOptions    ParamType = "options"
	ParamCredential ParamType = "credential"
)

// IsPrimitive reports whether t is a value type rather than a capability tag.
func (t ParamType) IsPrimitive() bool {
	switch t {
	case ParamString, ParamNumber, ParamBoolean, ParamOptions, ParamCredential:
		return true
	}
	return false
}

// ParamOption 下拉选项
type ParamOption struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// ParameterSpec 节点输入参数定义
type ParameterSpec struct {
	Label            string        `json:"label"`
	Name             string        `json:"name"`
	Type             ParamType     `json:"type"`
	Description      string        `json:"description,omitempty"`
	Placeholder      string        `json:"placeholder,omitempty"`
	Options          []ParamOption `json:"options,omitempty"`
	Default          any           `json:"default,omitempty"`
	Optional         bool          `json:"optional,omitempty"`
	AcceptVariable   bool          `json:"acceptVariable,omitempty"`
	AdditionalParams bool          `json:"additionalParams,omitempty"`
}

// HasOption reports whether name is one of the declared options.
func (p ParameterSpec) HasOption(name string) bool {
	for _, o := range p.Options {
		if o.Name == name {
			return true
		}
	}
	return false
}

// OutputSpec 节点输出定义
type OutputSpec struct {
	Label       string   `json:"label"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	BaseClasses []string `json:"baseClasses"`
}

// CredentialRequirement 凭据槽定义
type CredentialRequirement struct {
	Label           string   `json:"label"`
	Name            string   `json:"name"`
	CredentialNames []string `json:"credentialNames"`
}

// Accepts reports whether a credential of the given type can fill the slot.
func (c CredentialRequirement) Accepts(credentialName string) bool {
	for _, n := range c.CredentialNames {
		if n == credentialName {
			return true
		}
	}
	return false
}

// NodeDescriptor 节点元数据，注册后不可变。通过 Clone 对外暴露副本。
type NodeDescriptor struct {
	Label       string                 `json:"label"`
	Name        string                 `json:"name"`
	Version     float64                `json:"version"`
	Type        string                 `json:"type"`
	Icon        string                 `json:"icon"`
	Category    string                 `json:"category"`
	Badge       string                 `json:"badge,omitempty"`
	Description string                 `json:"description"`
	BaseClasses []string               `json:"baseClasses"`
	Inputs      []ParameterSpec        `json:"inputs"`
	Outputs     []OutputSpec           `json:"outputs"`
	Credential  *CredentialRequirement `json:"credential,omitempty"`
}

// Input returns the parameter named name.
func (d NodeDescriptor) Input(name string) (ParameterSpec, bool) {
	for _, p := range d.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// Output returns the output named name.
func (d NodeDescriptor) Output(name string) (OutputSpec, bool) {
	for _, o := range d.Outputs {
		if o.Name == name {
			return o, true
		}
	}
	return OutputSpec{}, false
}

// Clone returns a deep copy.
func (d NodeDescriptor) Clone() NodeDescriptor {
	d.BaseClasses = append([]string(nil), d.BaseClasses...)

	inputs := make([]ParameterSpec, len(d.Inputs))
	for i, p := range d.Inputs {
		p.Options = append([]ParamOption(nil), p.Options...)
		inputs[i] = p
	}
	d.Inputs = inputs

	outputs := make([]OutputSpec, len(d.Outputs))
	for i, o := range d.Outputs {
		o.BaseClasses = append([]string(nil), o.BaseClasses...)
		outputs[i] = o
	}
	d.Outputs = outputs

	if d.Credential != nil {
		c := *d.Credential
		c.CredentialNames = append([]string(nil), c.CredentialNames...)
		d.Credential = &c
	}
	return d
}
