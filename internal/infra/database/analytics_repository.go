package database

import (
	"context"
	"database/sql"

	"github.com/jpereira88/pipecrm/internal/entity"
)

// AnalyticsRepository serves the read-only aggregations behind the dashboard
// and analytics pages.
type AnalyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// SalesSummary sums won-deal value per month over the last twelve months.
func (r *AnalyticsRepository) SalesSummary(ctx context.Context) (*entity.ChartData, error) {
	query := `
		SELECT TO_CHAR(d.close_date, 'YYYY-MM') AS month, SUM(d.value) AS total_sales
		FROM deals d
		JOIN deal_stages ds ON d.stage_id = ds.id
		WHERE ds.name = 'won' AND d.close_date > NOW() - INTERVAL '12 months'
		GROUP BY month
		ORDER BY month
	`
	return r.chartData(ctx, query)
}

// SalesChart sums won-deal value per day for the current month.
func (r *AnalyticsRepository) SalesChart(ctx context.Context) (*entity.ChartData, error) {
	query := `
		SELECT TO_CHAR(d.close_date, 'YYYY-MM-DD') AS date, SUM(d.value) AS total_sales
		FROM deals d
		JOIN deal_stages ds ON d.stage_id = ds.id
		WHERE ds.name = 'won' AND d.close_date >= DATE_TRUNC('month', CURRENT_DATE)
		GROUP BY date
		ORDER BY date
	`
	return r.chartData(ctx, query)
}

func (r *AnalyticsRepository) chartData(ctx context.Context, query string) (*entity.ChartData, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError("sales aggregation", err)
	}
	defer rows.Close()

	chart := &entity.ChartData{Labels: []string{}, Data: []float64{}}
	for rows.Next() {
		var (
			label string
			total float64
		)
		if err := rows.Scan(&label, &total); err != nil {
			return nil, wrapDBError("scan sales row", err)
		}
		chart.Labels = append(chart.Labels, label)
		chart.Data = append(chart.Data, total)
	}
	return chart, rows.Err()
}

// TopReps ranks the five reps with the highest won-deal value.
func (r *AnalyticsRepository) TopReps(ctx context.Context) ([]entity.RepPerformance, error) {
	query := `
		SELECT u.name, SUM(d.value) AS total_won_value
		FROM deals d
		JOIN users u ON d.owner_id = u.id
		JOIN deal_stages ds ON d.stage_id = ds.id
		WHERE ds.name = 'won'
		GROUP BY u.name
		ORDER BY total_won_value DESC
		LIMIT 5
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError("top reps", err)
	}
	defer rows.Close()

	reps := []entity.RepPerformance{}
	for rows.Next() {
		var rep entity.RepPerformance
		if err := rows.Scan(&rep.Name, &rep.TotalWonValue); err != nil {
			return nil, wrapDBError("scan rep row", err)
		}
		reps = append(reps, rep)
	}
	return reps, rows.Err()
}

// TopProducts ranks the five products with the highest quantity across
// accepted quotes.
func (r *AnalyticsRepository) TopProducts(ctx context.Context) ([]entity.ProductSales, error) {
	query := `
		SELECT p.name, SUM(qli.quantity) AS total_quantity_sold
		FROM quote_line_items qli
		JOIN products p ON qli.product_id = p.id
		JOIN quotes q ON qli.quote_id = q.id
		WHERE q.status = 'Accepted'
		GROUP BY p.name
		ORDER BY total_quantity_sold DESC
		LIMIT 5
	`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapDBError("top products", err)
	}
	defer rows.Close()

	products := []entity.ProductSales{}
	for rows.Next() {
		var ps entity.ProductSales
		if err := rows.Scan(&ps.Name, &ps.TotalQuantitySold); err != nil {
			return nil, wrapDBError("scan product sales row", err)
		}
		products = append(products, ps)
	}
	return products, rows.Err()
}

// DashboardStats fills the dashboard cards in one round trip per figure.
func (r *AnalyticsRepository) DashboardStats(ctx context.Context) (*entity.DashboardStats, error) {
	var stats entity.DashboardStats

	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE status = 'New'`).Scan(&stats.NewLeads); err != nil {
		return nil, wrapDBError("count new leads", err)
	}

	var openValue sql.NullFloat64
	if err := r.DB.QueryRowContext(ctx,
		`SELECT SUM(value) FROM deals
		 WHERE stage_id NOT IN (SELECT id FROM deal_stages WHERE name IN ('won', 'lost'))`).
		Scan(&openValue); err != nil {
		return nil, wrapDBError("sum open deals", err)
	}
	stats.OpenDealsValue = openValue.Float64

	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = 'upcoming' AND due_date::date = CURRENT_DATE`).
		Scan(&stats.TasksDueToday); err != nil {
		return nil, wrapDBError("count tasks due", err)
	}

	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM product_requests WHERE status = 'Pending'`).
		Scan(&stats.OpenProductRequests); err != nil {
		return nil, wrapDBError("count product requests", err)
	}

	return &stats, nil
}
