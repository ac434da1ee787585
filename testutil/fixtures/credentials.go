package fixtures

import "github.com/BaSui01/agentflow-nodes/credential"

// CohereCredentialID 测试用凭据 ID。
const CohereCredentialID = "cred-cohere-test"

// CohereCredential 返回一个可用的 cohereApi 凭据记录。
func CohereCredential(apiKey string) credential.Record {
	return credential.Record{
		ID:   CohereCredentialID,
		Name: "cohereApi",
		Data: map[string]string{"cohereApiKey": apiKey},
	}
}
