// Package portfolio decodes policy portfolios from CSV.
package portfolio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aws-samples/actuarial-reserve-modelling/internal/domain"
)

// Columns lists the portfolio fields in positional order.
var Columns = []string{
	"id",
	"age",
	"gender",
	"smoking_status",
	"occupation",
	"policy_type",
	"effective_date",
	"term",
	"premium",
}

const (
	colID = iota
	colAge
	colGender
	colSmokingStatus
	colOccupation
	colPolicyType
	colEffectiveDate
	colTerm
	colPremium
)

// Loader reads portfolio files.
type Loader struct {
	log zerolog.Logger
}

// NewLoader creates a new portfolio loader.
func NewLoader(log zerolog.Logger) *Loader {
	return &Loader{
		log: log.With().Str("component", "portfolio_loader").Logger(),
	}
}

// LoadFile decodes the portfolio at path. An unreadable file yields a
// *domain.IOError, a bad record a *domain.MalformedInputError.
func (l *Loader) LoadFile(path string) ([]domain.Policy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.IOError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	policies, err := l.Decode(f)
	if err != nil {
		var malformed *domain.MalformedInputError
		if errors.As(err, &malformed) {
			return nil, err
		}
		return nil, &domain.IOError{Op: "read", Path: path, Err: err}
	}

	l.log.Debug().
		Str("path", path).
		Int("policies", len(policies)).
		Msg("Loaded portfolio")

	return policies, nil
}

// Decode reads a header row followed by policy records. When the header
// names every column the fields are matched by name, otherwise by position.
// Records keep their order in the source.
func (l *Loader) Decode(r io.Reader) ([]domain.Policy, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return []domain.Policy{}, nil
	}
	if err != nil {
		return nil, csvError(err)
	}

	index, byName := columnIndex(header)
	if !byName {
		if len(header) < len(Columns) {
			return nil, &domain.MalformedInputError{
				Line: 1,
				Err:  fmt.Errorf("header has %d columns, want at least %d", len(header), len(Columns)),
			}
		}
		l.log.Debug().Strs("header", header).Msg("Header does not name all columns, decoding by position")
	}

	policies := []domain.Policy{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}

		line, _ := reader.FieldPos(0)
		policy, err := decodeRecord(record, index, line)
		if err != nil {
			return nil, err
		}
		policies = append(policies, policy)
	}

	return policies, nil
}

// columnIndex maps each column to its position in the header. The second
// result is false when some column is missing, in which case the positional
// layout is returned.
func columnIndex(header []string) ([]int, bool) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	index := make([]int, len(Columns))
	for i, name := range Columns {
		pos, ok := positions[name]
		if !ok {
			for j := range index {
				index[j] = j
			}
			return index, false
		}
		index[i] = pos
	}
	return index, true
}

func decodeRecord(record []string, index []int, line int) (domain.Policy, error) {
	field := func(col int) string {
		return strings.TrimSpace(record[index[col]])
	}
	number := func(col int) (float64, error) {
		raw := field(col)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, &domain.MalformedInputError{
				Line:  line,
				Field: Columns[col],
				Err:   fmt.Errorf("invalid number %q", raw),
			}
		}
		return v, nil
	}

	for _, pos := range index {
		if pos >= len(record) {
			return domain.Policy{}, &domain.MalformedInputError{
				Line: line,
				Err:  fmt.Errorf("record has %d fields, want at least %d", len(record), pos+1),
			}
		}
	}

	age, err := number(colAge)
	if err != nil {
		return domain.Policy{}, err
	}
	term, err := number(colTerm)
	if err != nil {
		return domain.Policy{}, err
	}
	premium, err := number(colPremium)
	if err != nil {
		return domain.Policy{}, err
	}

	return domain.Policy{
		ID:            field(colID),
		Age:           age,
		Gender:        field(colGender),
		SmokingStatus: field(colSmokingStatus),
		Occupation:    field(colOccupation),
		PolicyType:    field(colPolicyType),
		EffectiveDate: field(colEffectiveDate),
		Term:          term,
		Premium:       premium,
	}, nil
}

// csvError turns encoding/csv parse errors into malformed input errors and
// passes read failures through.
func csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &domain.MalformedInputError{Line: parseErr.Line, Err: parseErr.Err}
	}
	return err
}
