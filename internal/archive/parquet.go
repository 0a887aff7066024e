// Package archive writes analysis history snapshots as Parquet files for
// offline analytics.
package archive

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/store"
)

// Row is one archived analysis in the Parquet schema.
type Row struct {
	TextHash       string `parquet:"text_hash"`
	Score          int32  `parquet:"score"`
	Risk           string `parquet:"risk"`
	Ratio          string `parquet:"ratio"`
	CertaintyCount int32  `parquet:"certainty_count"`
	EvidenceCount  int32  `parquet:"evidence_count"`
	ClaimCount     int32  `parquet:"claim_count"`
	WordCount      int32  `parquet:"word_count"`
	SentenceCount  int32  `parquet:"sentence_count"`
	CreatedAt      int64  `parquet:"created_at,timestamp(millisecond)"`
}

func rowFromRecord(rec store.AnalysisRecord) Row {
	return Row{
		TextHash:       rec.TextHash,
		Score:          int32(rec.Score),
		Risk:           rec.Risk,
		Ratio:          rec.Ratio,
		CertaintyCount: int32(rec.CertaintyCount),
		EvidenceCount:  int32(rec.EvidenceCount),
		ClaimCount:     int32(rec.ClaimCount),
		WordCount:      int32(rec.WordCount),
		SentenceCount:  int32(rec.SentenceCount),
		CreatedAt:      rec.CreatedAt.UnixMilli(),
	}
}

// Write streams records to w as one Parquet row group.
func Write(w io.Writer, records []store.AnalysisRecord) error {
	writer := parquet.NewGenericWriter[Row](w)

	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = rowFromRecord(rec)
	}

	for len(rows) > 0 {
		n, err := writer.Write(rows)
		if err != nil {
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
		rows = rows[n:]
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile archives records to a Parquet file at path.
func WriteFile(path string, records []store.AnalysisRecord, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	start := time.Now()
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}

	if err := Write(file, records); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close archive file: %w", err)
	}

	logger.Info("Archive written",
		zap.String("path", path),
		zap.Int("records", len(records)),
		zap.Duration("duration", time.Since(start)))
	return nil
}
