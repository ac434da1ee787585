package cohererank

import (
	"github.com/BaSui01/agentflow-nodes/llm/rerank"
	"github.com/BaSui01/agentflow-nodes/nodes"
)

const (
	NodeName = "cohereRerankRetriever"
	NodeType = "Cohere Rerank Retriever"

	// CredentialName 凭据槽接受的凭据类型
	CredentialName = "cohereApi"
	// CredentialParamAPIKey 凭据记录中 API Key 的参数名
	CredentialParamAPIKey = "cohereApiKey"
)

// 输入参数名
const (
	InputBaseRetriever   = "baseRetriever"
	InputModel           = "model"
	InputQuery           = "query"
	InputTopK            = "topK"
	InputMaxChunksPerDoc = "maxChunksPerDoc"
)

// 输出名
const (
	OutputRetriever = "retriever"
	OutputDocument  = "document"
	OutputText      = "text"
)

// DefaultTopK 基础检索器未声明 TopK 时的兜底值
const DefaultTopK = 4

var descriptor = newDescriptor()

// Descriptor 返回节点描述的副本
func Descriptor() nodes.NodeDescriptor {
	return descriptor.Clone()
}

func newDescriptor() nodes.NodeDescriptor {
	baseClasses := []string{NodeType, "BaseRetriever"}

	models := rerank.Models()
	modelOptions := make([]nodes.ParamOption, len(models))
	for i, m := range models {
		modelOptions[i] = nodes.ParamOption{Label: m, Name: m}
	}

	return nodes.NodeDescriptor{
		Label:       "Cohere Rerank Retriever",
		Name:        NodeName,
		Version:     1.0,
		Type:        NodeType,
		Icon:        "Cohere.svg",
		Category:    "Retrievers",
		Badge:       "NEW",
		Description: "Cohere Rerank indexes the documents from most to least semantically relevant to the query.",
		BaseClasses: baseClasses,
		Credential: &nodes.CredentialRequirement{
			Label:           "Connect Credential",
			Name:            "credential",
			CredentialNames: []string{CredentialName},
		},
		Inputs: []nodes.ParameterSpec{
			{
				Label: "Vector Store Retriever",
				Name:  InputBaseRetriever,
				Type:  "VectorStoreRetriever",
			},
			{
				Label:    "Model Name",
				Name:     InputModel,
				Type:     nodes.ParamOptions,
				Options:  modelOptions,
				Default:  rerank.DefaultModel,
				Optional: true,
			},
			{
				Label:          "Query",
				Name:           InputQuery,
				Type:           nodes.ParamString,
				Description:    "Query to retrieve documents from retriever. If not specified, user question will be used",
				Optional:       true,
				AcceptVariable: true,
			},
			{
				Label:            "Top K",
				Name:             InputTopK,
				Type:             nodes.ParamNumber,
				Description:      "Number of top results to fetch. Default to the TopK of the Base Retriever",
				Placeholder:      "4",
				Optional:         true,
				AdditionalParams: true,
			},
			{
				Label:            "Max Chunks Per Doc",
				Name:             InputMaxChunksPerDoc,
				Type:             nodes.ParamNumber,
				Description:      "The maximum number of chunks to produce internally from a document. Default to 10",
				Placeholder:      "10",
				Optional:         true,
				AdditionalParams: true,
			},
		},
		Outputs: []nodes.OutputSpec{
			{
				Label:       "Cohere Rerank Retriever",
				Name:        OutputRetriever,
				BaseClasses: baseClasses,
			},
			{
				Label:       "Document",
				Name:        OutputDocument,
				Description: "Array of document objects containing metadata and pageContent",
				BaseClasses: []string{"Document", "json"},
			},
			{
				Label:       "Text",
				Name:        OutputText,
				Description: "Concatenated string from pageContent of documents",
				BaseClasses: []string{"string", "json"},
			},
		},
	}
}
