package database

import (
	"fmt"
	"strings"

	"github.com/chachabrian/sewo-backend/internal/models"
	"gorm.io/gorm"
)

type checkConstraint struct {
	table string
	name  string
	expr  string
}

func quoteList[T ~string](values ...T) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + string(v) + "'"
	}
	return strings.Join(quoted, ", ")
}

func checkConstraints() []checkConstraint {
	return []checkConstraint{
		{"users", "users_role_check", fmt.Sprintf("role IN (%s)", quoteList(models.RolePartner, models.RoleCustomer))},
		{"vehicles", "vehicles_type_check", fmt.Sprintf("vehicle_type IN (%s)", quoteList(models.VehicleTypeCar, models.VehicleTypeMotorbike))},
		{"vehicles", "vehicles_fuel_check", fmt.Sprintf("fuel_type IN (%s)", quoteList(models.FuelTypeFuel, models.FuelTypeElectric))},
		{"vehicles", "vehicles_daily_price_check", "daily_price >= 0"},
		{"bookings", "bookings_status_check", fmt.Sprintf("status IN (%s)", quoteList(models.BookingStatuses...))},
		{"bookings", "bookings_dates_check", "end_date > start_date"},
		{"bookings", "bookings_total_price_check", "total_price >= 0"},
		{"payments", "payments_status_check", fmt.Sprintf("payment_status IN (%s)", quoteList(models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed))},
		{"reviews", "reviews_rating_check", "rating BETWEEN 1 AND 5"},
	}
}

// constraintStatements renders drop-then-add pairs so reruns pick up changed enumerations.
func constraintStatements() []string {
	var stmts []string
	for _, c := range checkConstraints() {
		stmts = append(stmts,
			fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", c.table, c.name),
			fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", c.table, c.name, c.expr),
		)
	}
	return stmts
}

func applyConstraints(db *gorm.DB, stmts []string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to apply %q: %w", stmt, err)
			}
		}
		return nil
	})
}

// RunMigrations migrates tables and, on postgres, enforces enumerations with CHECK constraints.
func RunMigrations(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applyConstraints(db, constraintStatements())
}
