package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/application"
	"github.com/shutten-navi/shutten-navi-services/api/internal/exhibitor/domain"
)

// RegistrationRepository は本登録レコードを Postgres で扱う実装リポジトリ。
// application.RegistrationRepository と主催者側の RegistrationReader を満たす。
type RegistrationRepository struct {
	db *sql.DB
}

// NewRegistrationRepository は接続を束縛したリポジトリを返す。
func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// ExistsByUserID は同一ユーザーの本登録が既にあるかを返す。
// 二重登録を防ぐ冪等性チェックとして Create の前に必ず呼ぶ。
func (r *RegistrationRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM exhibitor_registrations WHERE user_id = $1)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

// Create は本登録レコードを追加する。
func (r *RegistrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	var age sql.NullInt64
	if registration.Age != nil {
		age = sql.NullInt64{Int64: int64(*registration.Age), Valid: true}
	}
	var licenseExpiresOn sql.NullString
	if registration.LicenseExpiresOn != "" {
		licenseExpiresOn = sql.NullString{String: registration.LicenseExpiresOn, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO exhibitor_registrations
			(user_id, name, gender, age, phone, email, category, genre,
			 business_license_url, vehicle_inspection_url, automobile_inspection_url,
			 liability_insurance_url, fire_equipment_layout_url,
			 license_expires_on, terms_accepted_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		registration.UserID,
		registration.Name,
		string(registration.Gender),
		age,
		registration.Phone,
		registration.Email,
		registration.Category,
		registration.Genre,
		registration.Documents.BusinessLicense,
		registration.Documents.VehicleInspection,
		registration.Documents.AutomobileInspection,
		registration.Documents.LiabilityInsurance,
		registration.Documents.FireEquipmentLayout,
		licenseExpiresOn,
		registration.TermsAcceptedAt,
		registration.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Find は主催者向けの本登録一覧を新しい順で返す。
func (r *RegistrationRepository) Find(ctx context.Context, filter application.RegistrationFilter, paging application.Paging) ([]domain.Registration, error) {
	paging = paging.Normalize()

	query := strings.Builder{}
	query.WriteString(
		`SELECT user_id, name, gender, age, phone, email, category, genre,
			business_license_url, vehicle_inspection_url, automobile_inspection_url,
			liability_insurance_url, fire_equipment_layout_url,
			license_expires_on, terms_accepted_at, created_at
		 FROM exhibitor_registrations`)

	args := make([]any, 0, 4)
	conditions := make([]string, 0, 2)
	if category := strings.TrimSpace(filter.Category); category != "" {
		args = append(args, category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		args = append(args, "%"+keyword+"%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR genre ILIKE $%d)", len(args), len(args)))
	}
	if len(conditions) > 0 {
		query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	args = append(args, paging.Limit)
	query.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args)))
	args = append(args, paging.Offset())
	query.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	registrations := make([]domain.Registration, 0)
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		registrations = append(registrations, registration)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return registrations, nil
}

func scanRegistration(rows *sql.Rows) (domain.Registration, error) {
	var (
		registration     domain.Registration
		gender           string
		age              sql.NullInt64
		licenseExpiresOn sql.NullString
	)
	err := rows.Scan(
		&registration.UserID,
		&registration.Name,
		&gender,
		&age,
		&registration.Phone,
		&registration.Email,
		&registration.Category,
		&registration.Genre,
		&registration.Documents.BusinessLicense,
		&registration.Documents.VehicleInspection,
		&registration.Documents.AutomobileInspection,
		&registration.Documents.LiabilityInsurance,
		&registration.Documents.FireEquipmentLayout,
		&licenseExpiresOn,
		&registration.TermsAcceptedAt,
		&registration.CreatedAt,
	)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("db error: %w", err)
	}

	registration.Gender = domain.Gender(gender)
	if age.Valid {
		value := int(age.Int64)
		registration.Age = &value
	}
	if licenseExpiresOn.Valid {
		registration.LicenseExpiresOn = licenseExpiresOn.String
	}
	return registration, nil
}
