package sqlite

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/GCMSCompare/pkg/confidence"
	"github.com/ChrisMcGann/GCMSCompare/pkg/core"
	"github.com/ChrisMcGann/GCMSCompare/pkg/matchfactor"
	"github.com/ChrisMcGann/GCMSCompare/pkg/report"
	"github.com/ChrisMcGann/GCMSCompare/pkg/similarity"
)

func testRow(t *testing.T, index int) report.RowData {
	t.Helper()
	spec := core.NewSpectrum([]int{51, 77, 168, 169}, []float64{40, 80, 600, 999})
	row := core.AlignedRow{
		Index:   index,
		Samples: []string{"p1", "u"},
		Peaks: map[string]*core.PeakRecord{
			"p1": {PeakNo: 1, Name: "Diphenylamine", RetentionTime: 12.4, Area: 100, AreaPercentage: 1, MatchFactor: 912,
				Reference: core.NewSpectrum([]int{51, 169}, []float64{40, 999}), Combined: spec},
			"u": nil,
		},
		Spectra: map[string]core.Spectrum{"p1": spec, "u": {}},
	}
	data, err := report.BuildRow(row, nil, similarity.NewScorer(matchfactor.New()))
	require.NoError(t, err)
	return data
}

func count(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.db")
	w, err := NewWriter(path, "unit test")
	require.NoError(t, err)
	runID := w.RunID().String()

	rows := make([]report.RowData, 4)
	for i := range rows {
		rows[i] = testRow(t, i)
	}

	// rows arrive from the worker pool concurrently
	var wg sync.WaitGroup
	for _, data := range rows {
		wg.Add(1)
		go func(data report.RowData) {
			defer wg.Done()
			assert.NoError(t, w.WriteRow("shooter", data))
		}(data)
	}
	wg.Wait()

	err = w.WriteConfidence("shooter", report.ConfidenceScore{
		Reference: "p1",
		Unknown:   "u",
		Result: confidence.Result{
			Score: 0.75, Theoretical: 20, Actual: 15,
			Rows: []confidence.RowContribution{
				{Row: 3, ReferencePeak: true, UnknownPeak: true, MatchFactor: similarity.ScoreCell(950), MatchFactorPenalty: 0.5, Points: 9.5},
				{Row: 4, ReferencePeak: true, MatchFactor: similarity.MissingCell()},
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM RunTable WHERE RunId = ? AND Description = 'unit test'", runID))
	assert.Equal(t, 4, count(t, db, "SELECT RowCount FROM ComparisonTable WHERE RunId = ? AND Comparison = 'shooter'", runID))
	assert.Equal(t, 8, count(t, db, "SELECT COUNT(*) FROM SpectrumTable WHERE RunId = ?", runID))
	assert.Equal(t, 4, count(t, db, "SELECT COUNT(*) FROM SpectrumTable WHERE Sample = 'u' AND PeakNo IS NULL"))

	// 4 rows x 4 matrices x 2x2 cells
	assert.Equal(t, 64, count(t, db, "SELECT COUNT(*) FROM SimilarityTable"))
	assert.Equal(t, 2, count(t, db, "SELECT COUNT(*) FROM SimilarityTable WHERE RowNumber = 3"+
		" AND Matrix = 'within' AND Kind = 'self'"))
	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM SimilarityTable WHERE Kind <> 'score' AND Score IS NOT NULL"))

	assert.Positive(t, count(t, db, "SELECT COUNT(*) FROM TopMassTable WHERE Sample = 'p1'"))
	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM TopMassTable WHERE Sample = 'u'"))

	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM ConfidenceTable WHERE Confidence = 0.75"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM ConfidenceRowTable WHERE MatchFactorKind = 'missing' AND MatchFactor IS NULL"))

	var blob []byte
	require.NoError(t, db.QueryRow("SELECT blobMass FROM SpectrumTable WHERE Sample = 'p1' AND RowNumber = 3").Scan(&blob))
	assert.Equal(t, []float64{51, 77, 168, 169}, DecodeFloat64(blob))
}

func TestEncodeFloat64(t *testing.T) {
	values := []float64{0, 1.5, -2, 999}
	assert.Equal(t, values, DecodeFloat64(encodeFloat64(values)))
	assert.Empty(t, DecodeFloat64(nil))
	assert.Len(t, encodeMasses(core.NewSpectrum([]int{41, 43}, []float64{1, 2})), 16)
}
