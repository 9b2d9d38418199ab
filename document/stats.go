package document

// DocumentStats contains statistical information about a document
type DocumentStats struct {
	PathCount       int // Number of paths defined
	OperationCount  int // Total number of operations across all paths
	ParameterCount  int // Parameters declared on path items and operations
	ResponseCount   int // Responses declared on operations, including defaults
	DefinitionCount int // Number of schema definitions
}

// GetDocumentStats returns statistics for a parsed document
func GetDocumentStats(doc *Document) DocumentStats {
	stats := DocumentStats{}
	if doc == nil {
		return stats
	}

	stats.PathCount = len(doc.Paths)
	stats.DefinitionCount = len(doc.Definitions)
	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		stats.ParameterCount += len(item.Parameters)
		for _, op := range item.Operations() {
			stats.OperationCount++
			stats.ParameterCount += len(op.Parameters)
			stats.ResponseCount += len(op.Responses.All())
		}
	}
	return stats
}
