// Package sqlite provides SQLite database writing for comparison reports
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/report"
	"github.com/ChrisMcGann/GCMSCompare/pkg/similarity"
)

// Date format for RunTable (ISO 8601)
const runDateFormat = "2006-01-02T15:04:05Z07:00"

// Matrix and direction labels stored in SimilarityTable.
const (
	matrixCross  = "cross"
	matrixWithin = "within"
	forward      = "forward"
	reverse      = "reverse"
)

// Writer stores comparison results in a SQLite database. Every row written
// through one Writer carries the same run ID. It is safe for concurrent use.
type Writer struct {
	mu          sync.Mutex
	db          *sql.DB
	outputPath  string
	runID       uuid.UUID
	description string
	rowCounts   map[string]int
	order       []string

	spectrumStmt   *sql.Stmt
	similarityStmt *sql.Stmt
	topMassStmt    *sql.Stmt
	confidenceStmt *sql.Stmt
	contribStmt    *sql.Stmt
}

var _ report.Sink = (*Writer)(nil)

// NewWriter creates a new SQLite writer. description is stored in the run header.
func NewWriter(outputPath, description string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)

	w := &Writer{
		db:          db,
		outputPath:  outputPath,
		runID:       uuid.New(),
		description: description,
		rowCounts:   make(map[string]int),
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// RunID returns the identifier stamped on every row of this run.
func (w *Writer) RunID() uuid.UUID {
	return w.runID
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS RunTable (
		RunId TEXT PRIMARY KEY,
		CreationDate TEXT,
		Description TEXT
	);

	CREATE TABLE IF NOT EXISTS ComparisonTable (
		RunId TEXT REFERENCES RunTable(RunId),
		Comparison TEXT,
		RowCount INTEGER
	);

	CREATE TABLE IF NOT EXISTS SpectrumTable (
		RunId TEXT,
		Comparison TEXT,
		RowNumber INTEGER,
		Sample TEXT,
		SampleName TEXT,
		PeakNo INTEGER,
		Name TEXT,
		RetentionTime DOUBLE,
		Area DOUBLE,
		AreaPercentage DOUBLE,
		MatchFactor DOUBLE,
		blobMass BLOB,
		blobIntensity BLOB,
		blobReferenceMass BLOB,
		blobReferenceIntensity BLOB
	);

	CREATE TABLE IF NOT EXISTS SimilarityTable (
		RunId TEXT,
		Comparison TEXT,
		RowNumber INTEGER,
		Matrix TEXT,
		Direction TEXT,
		Sample TEXT,
		Reference TEXT,
		Kind TEXT,
		Score DOUBLE
	);

	CREATE TABLE IF NOT EXISTS TopMassTable (
		RunId TEXT,
		Comparison TEXT,
		RowNumber INTEGER,
		Sample TEXT,
		Compound TEXT,
		Rank INTEGER,
		ExperimentalMass INTEGER,
		ExperimentalIntensity INTEGER,
		ReferenceMass INTEGER,
		ReferenceIntensity INTEGER
	);

	CREATE TABLE IF NOT EXISTS ConfidenceTable (
		RunId TEXT,
		Comparison TEXT,
		Reference TEXT,
		Unknown TEXT,
		Confidence DOUBLE,
		Theoretical DOUBLE,
		Actual DOUBLE
	);

	CREATE TABLE IF NOT EXISTS ConfidenceRowTable (
		RunId TEXT,
		Comparison TEXT,
		Reference TEXT,
		Unknown TEXT,
		RowNumber INTEGER,
		ReferencePeak BOOL,
		UnknownPeak BOOL,
		MatchFactorKind TEXT,
		MatchFactor DOUBLE,
		AreaPenalty DOUBLE,
		MatchFactorPenalty DOUBLE,
		Points DOUBLE
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.spectrumStmt, err = w.db.Prepare(`
		INSERT INTO SpectrumTable (
			RunId, Comparison, RowNumber, Sample, SampleName, PeakNo, Name,
			RetentionTime, Area, AreaPercentage, MatchFactor,
			blobMass, blobIntensity, blobReferenceMass, blobReferenceIntensity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare spectrum statement: %w", err)
	}

	w.similarityStmt, err = w.db.Prepare(`
		INSERT INTO SimilarityTable (
			RunId, Comparison, RowNumber, Matrix, Direction, Sample, Reference, Kind, Score
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare similarity statement: %w", err)
	}

	w.topMassStmt, err = w.db.Prepare(`
		INSERT INTO TopMassTable (
			RunId, Comparison, RowNumber, Sample, Compound, Rank,
			ExperimentalMass, ExperimentalIntensity, ReferenceMass, ReferenceIntensity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare top mass statement: %w", err)
	}

	w.confidenceStmt, err = w.db.Prepare(`
		INSERT INTO ConfidenceTable (
			RunId, Comparison, Reference, Unknown, Confidence, Theoretical, Actual
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare confidence statement: %w", err)
	}

	w.contribStmt, err = w.db.Prepare(`
		INSERT INTO ConfidenceRowTable (
			RunId, Comparison, Reference, Unknown, RowNumber, ReferencePeak, UnknownPeak,
			MatchFactorKind, MatchFactor, AreaPenalty, MatchFactorPenalty, Points
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare confidence row statement: %w", err)
	}

	return nil
}

// WriteRow stores one row report in a single transaction
func (w *Writer) WriteRow(comparison string, data report.RowData) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runID := w.runID.String()

	// Insert one SpectrumTable entry per sample
	spectrumStmt := tx.Stmt(w.spectrumStmt)
	for _, s := range data.Samples {
		var (
			peakNo, name                any
			rt, area, areaPct, mf       any
			refMassBlob, refIntensities any
		)
		if s.Peak != nil {
			peakNo, name = s.Peak.PeakNo, s.Peak.Name
			rt, area, areaPct, mf = s.Peak.RetentionTime, s.Peak.Area, s.Peak.AreaPercentage, s.Peak.MatchFactor
			refMassBlob, refIntensities = encodeMasses(s.Peak.Reference), encodeFloat64(s.Peak.Reference.Intensities)
		}

		_, err := spectrumStmt.Exec(
			runID,                                 // RunId
			comparison,                            // Comparison
			data.Row,                              // RowNumber
			s.ID,                                  // Sample
			s.Name,                                // SampleName
			peakNo,                                // PeakNo
			name,                                  // Name
			rt,                                    // RetentionTime
			area,                                  // Area
			areaPct,                               // AreaPercentage
			mf,                                    // MatchFactor
			encodeMasses(s.Spectrum),              // blobMass
			encodeFloat64(s.Spectrum.Intensities), // blobIntensity
			refMassBlob,                           // blobReferenceMass
			refIntensities,                        // blobReferenceIntensity
		)
		if err != nil {
			return fmt.Errorf("failed to insert spectrum: %w", err)
		}
	}

	// Insert every cell of the four similarity matrices
	similarityStmt := tx.Stmt(w.similarityStmt)
	matrices := []struct {
		matrix, direction string
		m                 *similarity.Matrix
	}{
		{matrixCross, forward, data.Similarity.Forward},
		{matrixCross, reverse, data.Similarity.Reverse},
		{matrixWithin, forward, data.WithinSimilarity.Forward},
		{matrixWithin, reverse, data.WithinSimilarity.Reverse},
	}
	for _, mat := range matrices {
		if mat.m == nil {
			continue
		}
		var cellErr error
		mat.m.Each(func(row, col string, c similarity.Cell) {
			if cellErr != nil {
				return
			}
			_, cellErr = similarityStmt.Exec(
				runID, comparison, data.Row, mat.matrix, mat.direction,
				row, col, c.Kind().String(), cellScore(c),
			)
		})
		if cellErr != nil {
			return fmt.Errorf("failed to insert similarity: %w", cellErr)
		}
	}

	// Insert top mass tables
	topMassStmt := tx.Stmt(w.topMassStmt)
	for _, table := range data.TopMasses {
		for rank, pair := range table.Pairs {
			var expMass, expIntensity, refMass, refIntensity any
			if pair.Experimental != nil {
				expMass, expIntensity = pair.Experimental.Mass, pair.Experimental.Intensity
			}
			if pair.Reference != nil {
				refMass, refIntensity = pair.Reference.Mass, pair.Reference.Intensity
			}
			_, err := topMassStmt.Exec(
				runID, comparison, data.Row, table.Sample, table.Compound, rank+1,
				expMass, expIntensity, refMass, refIntensity,
			)
			if err != nil {
				return fmt.Errorf("failed to insert top mass: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit row %d: %w", data.Row, err)
	}

	w.countRows(comparison, 1)
	return nil
}

// WriteConfidence stores a confidence score and its per-row breakdown
func (w *Writer) WriteConfidence(comparison string, score report.ConfidenceScore) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	runID := w.runID.String()
	res := score.Result

	_, err = tx.Stmt(w.confidenceStmt).Exec(
		runID, comparison, score.Reference, score.Unknown,
		res.Score, res.Theoretical, res.Actual,
	)
	if err != nil {
		return fmt.Errorf("failed to insert confidence: %w", err)
	}

	contribStmt := tx.Stmt(w.contribStmt)
	for _, row := range res.Rows {
		_, err := contribStmt.Exec(
			runID, comparison, score.Reference, score.Unknown, row.Row,
			row.ReferencePeak, row.UnknownPeak,
			row.MatchFactor.Kind().String(), cellScore(row.MatchFactor),
			row.AreaPenalty, row.MatchFactorPenalty, row.Points,
		)
		if err != nil {
			return fmt.Errorf("failed to insert confidence row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit confidence: %w", err)
	}

	w.countRows(comparison, 0)
	return nil
}

// countRows registers a comparison for the ComparisonTable; callers hold w.mu
func (w *Writer) countRows(comparison string, n int) {
	if _, ok := w.rowCounts[comparison]; !ok {
		w.order = append(w.order, comparison)
	}
	w.rowCounts[comparison] += n
}

// cellScore returns the score of a Score cell and nil for sentinels
func cellScore(c similarity.Cell) any {
	if v, ok := c.Value(); ok {
		return v
	}
	return nil
}

// encodeMasses encodes masses as a little-endian float64 blob
func encodeMasses(spec core.Spectrum) []byte {
	values := make([]float64, len(spec.Masses))
	for i, m := range spec.Masses {
		values[i] = float64(m)
	}
	return encodeFloat64(values)
}

// encodeFloat64 encodes values as a little-endian float64 blob
func encodeFloat64(values []float64) []byte {
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

// DecodeFloat64 decodes a blob written by the writer
func DecodeFloat64(blob []byte) []float64 {
	values := make([]float64, len(blob)/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[i*8:]))
	}
	return values
}

// Finalize writes the run header and comparison tables and closes the database
func (w *Writer) Finalize() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Write RunTable
	_, err := w.db.Exec(`
		INSERT INTO RunTable (RunId, CreationDate, Description)
		VALUES (?, ?, ?)
	`, w.runID.String(), time.Now().UTC().Format(runDateFormat), w.description)
	if err != nil {
		return fmt.Errorf("failed to insert run header: %w", err)
	}

	// Write ComparisonTable
	for _, name := range w.order {
		_, err = w.db.Exec(`
			INSERT INTO ComparisonTable (RunId, Comparison, RowCount)
			VALUES (?, ?, ?)
		`, w.runID.String(), name, w.rowCounts[name])
		if err != nil {
			return fmt.Errorf("failed to insert comparison: %w", err)
		}
	}

	// Close prepared statements
	for _, stmt := range []*sql.Stmt{w.spectrumStmt, w.similarityStmt, w.topMassStmt, w.confidenceStmt, w.contribStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
