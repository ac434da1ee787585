/*
Package retriever 定义检索能力接口以及基于重排服务的压缩检索器。

  - Retriever：query → 按相关性排序的文档。
  - DocumentCompressor / ContextualCompressionRetriever：包装基础检索器并对结果做后处理。
  - CohereRerank：调用 rerank.Provider 的压缩器，结果写入 relevance_score 元数据。
  - BM25Retriever：内存关键词检索器，自带 TopK，可作为基础检索器。
*/
package retriever
