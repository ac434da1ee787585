package types

// Document 检索返回的文档，PageContent 为正文，Metadata 为附加元数据。
type Document struct {
	ID          string         `json:"id,omitempty"`
	PageContent string         `json:"pageContent"`
	Metadata    map[string]any `json:"metadata"`
}

// Clone returns a copy whose metadata map can be modified without
// touching the original document.
func (d Document) Clone() Document {
	md := make(map[string]any, len(d.Metadata)+1)
	for k, v := range d.Metadata {
		md[k] = v
	}
	d.Metadata = md
	return d
}
