package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/BaSui01/agentflow-nodes/credential"
	"github.com/BaSui01/agentflow-nodes/nodes"
	"github.com/BaSui01/agentflow-nodes/nodes/cohererank"
	"github.com/BaSui01/agentflow-nodes/retriever"
	"github.com/BaSui01/agentflow-nodes/types"
)

// =============================================================================
// 📖 describe 命令
// =============================================================================

func runDescribe(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	name := fs.String("node", "", "Only print this node")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// 描述不依赖凭据后端，只需注册节点
	reg := nodes.NewRegistry()
	if err := cohererank.Register(reg, cfg.Cohere.Client()); err != nil {
		return err
	}

	var out any = reg.Descriptors()
	if *name != "" {
		desc, ok := reg.Descriptor(*name)
		if !ok {
			return types.NewError(types.ErrNodeNotFound, fmt.Sprintf("node %q is not registered", *name))
		}
		out = desc
	}
	return writeJSON(stdout, out)
}

// =============================================================================
// 🔎 run 命令
// =============================================================================

// retrieveFlags run 命令参数
type retrieveFlags struct {
	configPath string
	docsPath   string
	query      string
	question   string
	credential string
	apiKey     string
	model      string
	topK       int
	maxChunks  int
	baseTopK   int
	output     string
}

func parseRetrieveFlags(args []string) (retrieveFlags, error) {
	var f retrieveFlags
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&f.configPath, "config", "", "Path to config file")
	fs.StringVar(&f.docsPath, "docs", "", "JSON array of documents (- for stdin)")
	fs.StringVar(&f.query, "query", "", "Rerank query")
	fs.StringVar(&f.question, "question", "", "User question, used when --query is empty")
	fs.StringVar(&f.credential, "credential", "", "Credential id")
	fs.StringVar(&f.apiKey, "api-key", "", "Cohere API key, overrides the stored credential")
	fs.StringVar(&f.model, "model", "", "Rerank model")
	fs.IntVar(&f.topK, "top-k", 0, "Number of documents to keep")
	fs.IntVar(&f.maxChunks, "max-chunks", 0, "Max chunks per document")
	fs.IntVar(&f.baseTopK, "base-top-k", 0, "Top-K of the BM25 base retriever")
	fs.StringVar(&f.output, "output", "document", "document or text")
	if err := fs.Parse(args); err != nil {
		return f, err
	}

	if f.docsPath == "" {
		return f, errors.New("--docs is required")
	}
	switch f.output {
	case "document", "text":
	default:
		return f, fmt.Errorf("--output must be document or text, got %q", f.output)
	}
	if f.apiKey != "" && f.credential == "" {
		f.credential = "cli"
	}
	return f, nil
}

// inputs 只写入显式给出的参数，缺省值由节点决定
func (f retrieveFlags) inputs(base retriever.Retriever) nodes.ResolvedInputs {
	in := nodes.ResolvedInputs{cohererank.InputBaseRetriever: base}
	if f.model != "" {
		in[cohererank.InputModel] = f.model
	}
	if f.query != "" {
		in[cohererank.InputQuery] = f.query
	}
	if f.topK != 0 {
		in[cohererank.InputTopK] = f.topK
	}
	if f.maxChunks != 0 {
		in[cohererank.InputMaxChunksPerDoc] = f.maxChunks
	}
	return in
}

func runRetrieve(ctx context.Context, args []string, stdout io.Writer) error {
	f, err := parseRetrieveFlags(args)
	if err != nil {
		return err
	}

	docs, err := readDocuments(f.docsPath, os.Stdin)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}
	logger := initLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	rt, err := newRuntime(ctx, cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	return retrieveOnce(ctx, rt, f, docs, stdout)
}

// retrieveOnce 用 BM25 基础检索器召回 docs，再经节点重排后输出
func retrieveOnce(ctx context.Context, rt *runtime, f retrieveFlags, docs []types.Document, stdout io.Writer) error {
	bm25 := retriever.DefaultBM25Config()
	if f.baseTopK > 0 {
		bm25.TopK = f.baseTopK
	}
	base := retriever.NewBM25Retriever(bm25, rt.logger)
	base.IndexDocuments(docs)

	if f.apiKey != "" {
		ctx = credential.WithOverride(ctx, credential.Record{
			ID:   f.credential,
			Name: cohererank.CredentialName,
			Data: map[string]string{cohererank.CredentialParamAPIKey: f.apiKey},
		})
	}

	out, err := rt.registry.Init(ctx, cohererank.NodeName, nodes.NodeData{
		ID:         "cli",
		Inputs:     f.inputs(base),
		Credential: f.credential,
		OutputName: f.output,
	}, f.question, rt.options())
	if err != nil {
		return err
	}

	if text, ok := out.(string); ok {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}
	return writeJSON(stdout, out)
}

// readDocuments 读取 JSON 文档数组，path 为 "-" 时读 stdin
func readDocuments(path string, stdin io.Reader) ([]types.Document, error) {
	var r io.Reader = stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open documents: %w", err)
		}
		defer file.Close()
		r = file
	}

	var docs []types.Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, errors.New("documents file is empty")
	}
	return docs, nil
}

// =============================================================================
// 🔑 credential 命令
// =============================================================================

func runCredential(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errors.New("usage: reranknode credential <add|list|delete> [options]")
	}

	fs := flag.NewFlagSet("credential "+args[0], flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config file")
	id := fs.String("id", "", "Credential id (generated when empty)")
	apiKey := fs.String("api-key", "", "Cohere API key")
	label := fs.String("label", "", "Human readable label")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := initLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	rt, err := newRuntime(ctx, cfg, logger, runtimeOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close(context.Background()) }()

	switch args[0] {
	case "add":
		return addCredential(ctx, rt, *id, *apiKey, *label, stdout)
	case "list":
		return listCredentials(ctx, rt, stdout)
	case "delete":
		if *id == "" {
			return errors.New("--id is required")
		}
		if err := rt.deleteCredential(ctx, *id); err != nil {
			return err
		}
		_, err := fmt.Fprintf(stdout, "deleted %s\n", *id)
		return err
	default:
		return fmt.Errorf("unknown credential command %q", args[0])
	}
}

func addCredential(ctx context.Context, rt *runtime, id, apiKey, label string, stdout io.Writer) error {
	if apiKey == "" {
		return errors.New("--api-key is required")
	}
	if id == "" {
		id = uuid.NewString()
	}
	saved, err := rt.saveCredential(ctx, credential.Record{
		ID:   id,
		Name: cohererank.CredentialName,
		Data: map[string]string{cohererank.CredentialParamAPIKey: apiKey},
	}, label)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, saved)
	return err
}

func listCredentials(ctx context.Context, rt *runtime, stdout io.Writer) error {
	if rt.gorm == nil {
		return fmt.Errorf("credential list requires the database backend, got %q", rt.cfg.Credentials.Backend)
	}
	rows, err := rt.gorm.List(ctx, cohererank.CredentialName)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLABEL\tUPDATED")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.ID, row.Name, row.Label, row.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
