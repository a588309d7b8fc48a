package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/footprint/pkg/pagination"
	"github.com/JaimeStill/footprint/pkg/query"
	"github.com/JaimeStill/footprint/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a result repository implementing the System interface.
// Every read and write runs on its own pooled connection.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "results"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) SaveExtraction(ctx context.Context, documentID uuid.UUID, e Extraction) error {
	insertQ := `
		INSERT INTO extracted_fields(document_id, field_name, field_value, confidence)
		VALUES ($1, $2, $3, $4)`

	err := r.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM extracted_fields WHERE document_id = $1", documentID); err != nil {
			return fmt.Errorf("clear extracted fields: %w", err)
		}

		for _, name := range slices.Sorted(maps.Keys(e.Fields)) {
			if _, err := tx.ExecContext(ctx, insertQ, documentID, name, e.Fields[name], 1.0); err != nil {
				return fmt.Errorf("insert field %s: %w", name, err)
			}
		}

		for _, raw := range e.Raw {
			if _, err := tx.ExecContext(ctx, insertQ, documentID, RawResponseKey, raw, 0.0); err != nil {
				return fmt.Errorf("insert raw response: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("save extraction: %w", err)
	}

	r.logger.Info("extraction saved", "document_id", documentID, "fields", len(e.Fields))
	return nil
}

func (r *repo) SaveCalculation(ctx context.Context, documentID uuid.UUID, c Calculation) error {
	insertQ := `
		INSERT INTO carbon_results(document_id, category, emission_factor, quantity, carbon_output, unit)
		VALUES ($1, $2, $3, $4, $5, $6)`

	summaryQ := `
		INSERT INTO carbon_summaries(document_id, total_carbon_kg, raw_response)
		VALUES ($1, $2, $3)
		ON CONFLICT (document_id) DO UPDATE SET
			total_carbon_kg = EXCLUDED.total_carbon_kg,
			raw_response = EXCLUDED.raw_response,
			created_at = now()`

	err := r.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM carbon_results WHERE document_id = $1", documentID); err != nil {
			return fmt.Errorf("clear carbon results: %w", err)
		}

		for _, item := range c.Breakdown {
			unit := item.Unit
			if unit == "" {
				unit = UnitKgCO2e
			}

			if _, err := tx.ExecContext(
				ctx, insertQ,
				documentID, item.Category, item.EmissionFactor,
				item.Quantity, item.CarbonOutput, unit,
			); err != nil {
				return fmt.Errorf("insert carbon result %s: %w", item.Category, err)
			}
		}

		if _, err := tx.ExecContext(ctx, summaryQ, documentID, c.TotalCarbonKG, nullable(c.Raw)); err != nil {
			return fmt.Errorf("upsert carbon summary: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("save calculation: %w", err)
	}

	r.logger.Info(
		"calculation saved",
		"document_id", documentID,
		"categories", len(c.Breakdown),
		"total_carbon_kg", c.TotalCarbonKG,
	)
	return nil
}

func (r *repo) SaveAudit(ctx context.Context, documentID uuid.UUID, a Audit) error {
	hotspots, err := json.Marshal(nonNil(a.Hotspots))
	if err != nil {
		return fmt.Errorf("marshal hotspots: %w", err)
	}

	recommendations, err := json.Marshal(nonNil(a.Recommendations))
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}

	upsertQ := `
		INSERT INTO audit_reports(document_id, hotspots, recommendations, total_emissions, risk_level, raw_response)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (document_id) DO UPDATE SET
			hotspots = EXCLUDED.hotspots,
			recommendations = EXCLUDED.recommendations,
			total_emissions = EXCLUDED.total_emissions,
			risk_level = EXCLUDED.risk_level,
			raw_response = EXCLUDED.raw_response,
			created_at = now()`

	err = r.write(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx, upsertQ,
			documentID, hotspots, recommendations,
			a.TotalEmissions, a.RiskLevel, nullable(a.Raw),
		)
		return err
	})

	if err != nil {
		return fmt.Errorf("save audit: %w", err)
	}

	r.logger.Info("audit saved", "document_id", documentID, "risk_level", a.RiskLevel)
	return nil
}

// resultTables lists every table holding stage output, downstream last.
var resultTables = []string{"extracted_fields", "carbon_results", "carbon_summaries", "audit_reports"}

func (r *repo) Clear(ctx context.Context, documentID uuid.UUID) error {
	err := r.write(ctx, func(tx *sql.Tx) error {
		for _, table := range resultTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE document_id = $1", documentID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear results: %w", err)
	}

	r.logger.Info("results cleared", "document_id", documentID)
	return nil
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Results, error) {
	res, err := repository.WithConn(ctx, r.db, func(conn *sql.Conn) (Results, error) {
		res := Results{DocumentID: documentID}

		extraction, err := findExtraction(ctx, conn, documentID)
		if err != nil {
			return res, err
		}
		res.Extraction = extraction

		calculation, err := findCalculation(ctx, conn, documentID)
		if err != nil {
			return res, err
		}
		res.Calculation = calculation

		audit, err := findAudit(ctx, conn, documentID)
		if err != nil {
			return res, err
		}
		res.Audit = audit

		return res, nil
	})

	if err != nil {
		return nil, fmt.Errorf("find results for %s: %w", documentID, err)
	}

	if res.Extraction == nil && res.Calculation == nil && res.Audit == nil {
		return nil, ErrNotFound
	}

	return &res, nil
}

func (r *repo) ListAudits(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[AuditSummary], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(auditProjection, defaultSort).
		WhereSearch(page.Search, "Filename", "RiskLevel")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit reports: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.PageSize, page.Offset())
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAuditSummary)
	if err != nil {
		return nil, fmt.Errorf("query audit reports: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

// write runs fn in a transaction on a connection scoped to this call.
func (r *repo) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	_, err := repository.WithConn(ctx, r.db, func(conn *sql.Conn) (struct{}, error) {
		return repository.WithTx(ctx, conn, func(tx *sql.Tx) (struct{}, error) {
			return struct{}{}, fn(tx)
		})
	})
	return err
}

func findExtraction(ctx context.Context, q repository.Querier, documentID uuid.UUID) (*Extraction, error) {
	rows, err := repository.QueryMany(
		ctx, q,
		`SELECT field_name, field_value FROM extracted_fields
		WHERE document_id = $1 ORDER BY created_at, field_name`,
		[]any{documentID},
		scanFieldRow,
	)
	if err != nil {
		return nil, fmt.Errorf("query extracted fields: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	e := &Extraction{Fields: make(map[string]string)}
	for _, row := range rows {
		if row.name == RawResponseKey {
			e.Raw = append(e.Raw, row.value)
			continue
		}
		e.Fields[row.name] = row.value
	}

	return e, nil
}

func findCalculation(ctx context.Context, q repository.Querier, documentID uuid.UUID) (*Calculation, error) {
	var (
		c   Calculation
		raw *string
	)

	err := q.QueryRowContext(
		ctx,
		"SELECT total_carbon_kg, raw_response FROM carbon_summaries WHERE document_id = $1",
		documentID,
	).Scan(&c.TotalCarbonKG, &raw)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query carbon summary: %w", err)
	}

	if raw != nil {
		c.Raw = *raw
	}

	c.Breakdown, err = repository.QueryMany(
		ctx, q,
		`SELECT category, emission_factor, quantity, carbon_output, unit
		FROM carbon_results WHERE document_id = $1 ORDER BY carbon_output DESC, category`,
		[]any{documentID},
		scanEmission,
	)
	if err != nil {
		return nil, fmt.Errorf("query carbon results: %w", err)
	}

	return &c, nil
}

func findAudit(ctx context.Context, q repository.Querier, documentID uuid.UUID) (*Audit, error) {
	a, err := repository.QueryOne(
		ctx, q,
		`SELECT hotspots, recommendations, total_emissions, risk_level, raw_response
		FROM audit_reports WHERE document_id = $1`,
		[]any{documentID},
		scanAudit,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query audit report: %w", err)
	}

	return &a, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
