package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat is the format for status output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// IndexStatus summarizes a built index.
type IndexStatus struct {
	IndexPath       string `json:"index_path"`
	Chunks          int64  `json:"chunks"`
	Sources         int    `json:"sources"`
	VectorIndexSize int    `json:"vector_index_size"`
	VectorIndexType string `json:"vector_index_type"`
	DiskUsageBytes  int64  `json:"disk_usage_bytes"`
	EmbeddingModel  string `json:"embedding_model"`
	LLMModel        string `json:"llm_model"`
}

// WriteStatus writes st to w in the given format.
func WriteStatus(w io.Writer, st *IndexStatus, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	default:
		fmt.Fprintf(w, "Index:        %s\n", st.IndexPath)
		fmt.Fprintf(w, "Chunks:       %d\n", st.Chunks)
		fmt.Fprintf(w, "Sources:      %d\n", st.Sources)
		fmt.Fprintf(w, "Vectors:      %d (%s)\n", st.VectorIndexSize, st.VectorIndexType)
		fmt.Fprintf(w, "Disk usage:   %s\n", FormatBytes(st.DiskUsageBytes))
		fmt.Fprintf(w, "Embedding:    %s\n", st.EmbeddingModel)
		fmt.Fprintf(w, "LLM:          %s\n", st.LLMModel)
		return nil
	}
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
