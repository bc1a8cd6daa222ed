package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"satchart/internal/model"
)

var header = []string{"category", "score"}

// DatasetRepository хранит снимок набора оценок в CSV
type DatasetRepository struct {
	dir string
}

// NewDatasetRepository создает репозиторий в каталоге dir
func NewDatasetRepository(dir string) *DatasetRepository {
	return &DatasetRepository{dir: dir}
}

// Path возвращает путь снимка для имени файла графика: chart.png -> chart.csv
func (r *DatasetRepository) Path(chartFile string) string {
	base := filepath.Base(chartFile)
	return filepath.Join(r.dir, base[:len(base)-len(filepath.Ext(base))]+".csv")
}

// Save сохраняет набор в CSV-файл
func (r *DatasetRepository) Save(path string, ds *model.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, rt := range ds.Ratings {
		record := []string{
			rt.Category,
			strconv.FormatFloat(rt.Score, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return file.Close()
}

// Load читает набор из CSV-файла и проверяет его
func (r *DatasetRepository) Load(path string, bounds model.Bounds) (*model.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(header)

	ds := &model.Dataset{
		Name:   filepath.Base(path),
		Bounds: bounds,
	}
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && record[0] == header[0] {
			continue
		}
		score, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Ratings = append(ds.Ratings, model.Rating{Category: record[0], Score: score})
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}
