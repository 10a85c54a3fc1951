package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/kottageio/kottage/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Compile-time check: PropertyRepository implements domain.PropertyRepository.
var _ domain.PropertyRepository = (*PropertyRepository)(nil)

// PropertyRepository implements domain.PropertyRepository using SQLite.
// Room types and approval documents live in keyed child tables so that
// edits to different items are independent writes.
type PropertyRepository struct {
	db *sql.DB
}

// New opens a SQLite database, runs migrations, and returns a ready repository.
func New(dataSourceName string) (*PropertyRepository, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns
// a ready repository. Use this when the *sql.DB has been pre-configured
// (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*PropertyRepository, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &PropertyRepository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *PropertyRepository) Close() error {
	return r.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (r *PropertyRepository) DB() *sql.DB {
	return r.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeFormat, s)
	return t
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

// encodeStrings serializes a string slice as a JSON array column value.
func encodeStrings(v []string) string {
	if len(v) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func decodeStrings(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var out []string
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

func (r *PropertyRepository) Create(ctx context.Context, p domain.Property) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var score any
	if p.Approval.ApprovalScore != nil {
		score = *p.Approval.ApprovalScore
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO properties (id, owner_id, name, description, address, phone, price,
		    amenities, images, is_listed, approval_status, required_documents,
		    rejection_reason, notes, approval_score, submitted_at, reviewed_at, reviewed_by,
		    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Name, p.Description, p.Address, p.Phone, p.Price,
		encodeStrings(p.Amenities), encodeStrings(p.Images), boolToInt(p.IsListed),
		string(p.Approval.Status), encodeStrings(p.Approval.RequiredDocuments),
		p.Approval.RejectionReason, p.Approval.Notes, score,
		formatTimePtr(p.Approval.SubmittedAt), formatTimePtr(p.Approval.ReviewedAt),
		p.Approval.ReviewedBy, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	for _, rt := range p.RoomTypes {
		if err := insertRoomType(ctx, tx, p.ID, rt); err != nil {
			return err
		}
	}

	for _, doc := range p.Approval.SubmittedDocuments {
		if err := insertDocument(ctx, tx, p.ID, doc); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing property insert: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (domain.Property, error) {
	p, err := r.scanProperty(r.db.QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id,
	))
	if err != nil {
		return domain.Property{}, err
	}

	if err := r.loadChildren(ctx, &p); err != nil {
		return domain.Property{}, err
	}
	return p, nil
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	return r.list(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE owner_id = ? ORDER BY created_at DESC`,
		ownerID,
	)
}

func (r *PropertyRepository) ListAll(ctx context.Context, filter domain.ListFilter) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`
	var args []any

	if filter.Status != nil {
		query += ` WHERE approval_status = ?`
		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	return r.list(ctx, query, args...)
}

func (r *PropertyRepository) list(ctx context.Context, query string, args ...any) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing properties: %w", err)
	}
	defer rows.Close()

	var properties []domain.Property
	for rows.Next() {
		p, err := r.scanPropertyFromRows(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range properties {
		if err := r.loadChildren(ctx, &properties[i]); err != nil {
			return nil, err
		}
	}
	return properties, nil
}

// ApplyPatch writes only the fields present on the patch, plus the
// updated_at stamp, in a single statement. Absent sibling fields are
// untouched. A RoomTypes patch replaces the whole child collection and is
// last-write-wins; per-item writes go through UpsertRoomType instead.
func (r *PropertyRepository) ApplyPatch(ctx context.Context, id string, patch domain.PropertyPatch) error {
	if patch.IsZero() {
		return nil
	}

	var sets []string
	var args []any

	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Address != nil {
		set("address", *patch.Address)
	}
	if patch.Phone != nil {
		set("phone", *patch.Phone)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Amenities != nil {
		set("amenities", encodeStrings(*patch.Amenities))
	}
	if patch.Images != nil {
		set("images", encodeStrings(*patch.Images))
	}
	if patch.IsListed != nil {
		set("is_listed", boolToInt(*patch.IsListed))
	}
	set("updated_at", formatTime(time.Now()))
	args = append(args, id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE properties SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
	)
	if err != nil {
		return fmt.Errorf("patching property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}

	if patch.RoomTypes != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM room_types WHERE property_id = ?`, id); err != nil {
			return fmt.Errorf("clearing room types: %w", err)
		}
		for _, rt := range *patch.RoomTypes {
			if err := insertRoomType(ctx, tx, id, rt); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing property patch: %w", err)
	}
	return nil
}

func (r *PropertyRepository) UpdateApproval(ctx context.Context, id string, approval domain.Approval) error {
	var score any
	if approval.ApprovalScore != nil {
		score = *approval.ApprovalScore
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE properties SET approval_status = ?, required_documents = ?,
		    rejection_reason = ?, notes = ?, approval_score = ?,
		    submitted_at = ?, reviewed_at = ?, reviewed_by = ?, updated_at = ?
		 WHERE id = ?`,
		string(approval.Status), encodeStrings(approval.RequiredDocuments),
		approval.RejectionReason, approval.Notes, score,
		formatTimePtr(approval.SubmittedAt), formatTimePtr(approval.ReviewedAt),
		approval.ReviewedBy, formatTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("updating approval: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepository) AddDocument(ctx context.Context, propertyID string, doc domain.ApprovalDocument) error {
	if err := insertDocument(ctx, r.db, propertyID, doc); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrPropertyNotFound
		}
		return err
	}
	return nil
}

func (r *PropertyRepository) UpdateDocumentStatus(ctx context.Context, propertyID, documentID string, status domain.DocumentStatus, reason string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE approval_documents SET status = ?, rejection_reason = ?
		 WHERE property_id = ? AND id = ?`,
		string(status), reason, propertyID, documentID,
	)
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *PropertyRepository) UpsertRoomType(ctx context.Context, propertyID string, rt domain.RoomType) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO room_types (id, property_id, name, description, max_occupancy,
		    price_per_night, quantity_available, amenities, images, list_status, promotion)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (property_id, id) DO UPDATE SET
		    name = excluded.name,
		    description = excluded.description,
		    max_occupancy = excluded.max_occupancy,
		    price_per_night = excluded.price_per_night,
		    quantity_available = excluded.quantity_available,
		    amenities = excluded.amenities,
		    images = excluded.images,
		    list_status = excluded.list_status,
		    promotion = excluded.promotion`,
		rt.ID, propertyID, rt.Name, rt.Description, rt.MaxOccupancy,
		rt.PricePerNight, rt.QuantityAvailable, encodeStrings(rt.Amenities),
		encodeStrings(rt.Images), string(rt.ListStatus), rt.Promotion,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrPropertyNotFound
		}
		return fmt.Errorf("upserting room type: %w", err)
	}
	return nil
}

func (r *PropertyRepository) DeleteRoomType(ctx context.Context, propertyID, roomTypeID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM room_types WHERE property_id = ? AND id = ?`,
		propertyID, roomTypeID,
	)
	if err != nil {
		return fmt.Errorf("deleting room type: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRoomTypeNotFound
	}
	return nil
}

// Delete removes the property and, via foreign key cascade, its room types
// and documents in one transaction. There is no window where child rows
// outlive the parent.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

// --- row scanning ---

const propertyColumns = `id, owner_id, name, description, address, phone, price,
	amenities, images, is_listed, approval_status, required_documents,
	rejection_reason, notes, approval_score, submitted_at, reviewed_at, reviewed_by,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPropertyRow(row rowScanner) (domain.Property, error) {
	var p domain.Property
	var amenities, images, status, requiredDocs, createdAt, updatedAt string
	var isListed int
	var score sql.NullFloat64
	var submittedAt, reviewedAt sql.NullString

	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.Address, &p.Phone,
		&p.Price, &amenities, &images, &isListed, &status, &requiredDocs,
		&p.Approval.RejectionReason, &p.Approval.Notes, &score,
		&submittedAt, &reviewedAt, &p.Approval.ReviewedBy, &createdAt, &updatedAt)
	if err != nil {
		return domain.Property{}, err
	}

	p.Amenities = decodeStrings(amenities)
	p.Images = decodeStrings(images)
	p.IsListed = isListed != 0
	p.Approval.Status = domain.ApprovalStatus(status)
	p.Approval.RequiredDocuments = decodeStrings(requiredDocs)
	if score.Valid {
		p.Approval.ApprovalScore = &score.Float64
	}
	p.Approval.SubmittedAt = parseTimePtr(submittedAt)
	p.Approval.ReviewedAt = parseTimePtr(reviewedAt)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	return p, nil
}

func (r *PropertyRepository) scanProperty(row *sql.Row) (domain.Property, error) {
	p, err := scanPropertyRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Property{}, domain.ErrPropertyNotFound
		}
		return domain.Property{}, fmt.Errorf("scanning property: %w", err)
	}
	return p, nil
}

func (r *PropertyRepository) scanPropertyFromRows(rows *sql.Rows) (domain.Property, error) {
	p, err := scanPropertyRow(rows)
	if err != nil {
		return domain.Property{}, fmt.Errorf("scanning property row: %w", err)
	}
	return p, nil
}

func (r *PropertyRepository) loadChildren(ctx context.Context, p *domain.Property) error {
	rooms, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, max_occupancy, price_per_night,
		    quantity_available, amenities, images, list_status, promotion
		 FROM room_types WHERE property_id = ? ORDER BY id`, p.ID,
	)
	if err != nil {
		return fmt.Errorf("loading room types: %w", err)
	}
	defer rooms.Close()

	p.RoomTypes = nil
	for rooms.Next() {
		var rt domain.RoomType
		var amenities, images, listStatus string
		if err := rooms.Scan(&rt.ID, &rt.Name, &rt.Description, &rt.MaxOccupancy,
			&rt.PricePerNight, &rt.QuantityAvailable, &amenities, &images,
			&listStatus, &rt.Promotion); err != nil {
			return fmt.Errorf("scanning room type: %w", err)
		}
		rt.Amenities = decodeStrings(amenities)
		rt.Images = decodeStrings(images)
		rt.ListStatus = domain.ListStatus(listStatus)
		p.RoomTypes = append(p.RoomTypes, rt)
	}
	if err := rooms.Err(); err != nil {
		return err
	}

	docs, err := r.db.QueryContext(ctx,
		`SELECT id, name, doc_type, url, status, rejection_reason, uploaded_at
		 FROM approval_documents WHERE property_id = ? ORDER BY uploaded_at, id`, p.ID,
	)
	if err != nil {
		return fmt.Errorf("loading documents: %w", err)
	}
	defer docs.Close()

	p.Approval.SubmittedDocuments = nil
	for docs.Next() {
		var doc domain.ApprovalDocument
		var docType, status, uploadedAt string
		if err := docs.Scan(&doc.ID, &doc.Name, &docType, &doc.URL, &status,
			&doc.RejectionReason, &uploadedAt); err != nil {
			return fmt.Errorf("scanning document: %w", err)
		}
		doc.Type = domain.DocumentType(docType)
		doc.Status = domain.DocumentStatus(status)
		doc.UploadedAt = parseTime(uploadedAt)
		p.Approval.SubmittedDocuments = append(p.Approval.SubmittedDocuments, doc)
	}
	return docs.Err()
}

// --- helpers ---

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRoomType(ctx context.Context, q execer, propertyID string, rt domain.RoomType) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO room_types (id, property_id, name, description, max_occupancy,
		    price_per_night, quantity_available, amenities, images, list_status, promotion)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rt.ID, propertyID, rt.Name, rt.Description, rt.MaxOccupancy,
		rt.PricePerNight, rt.QuantityAvailable, encodeStrings(rt.Amenities),
		encodeStrings(rt.Images), string(rt.ListStatus), rt.Promotion,
	)
	if err != nil {
		return fmt.Errorf("inserting room type: %w", err)
	}
	return nil
}

func insertDocument(ctx context.Context, q execer, propertyID string, doc domain.ApprovalDocument) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO approval_documents (id, property_id, name, doc_type, url,
		    status, rejection_reason, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, propertyID, doc.Name, string(doc.Type), doc.URL,
		string(doc.Status), doc.RejectionReason, formatTime(doc.UploadedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isForeignKeyViolation checks if a SQLite error is a FOREIGN KEY constraint violation.
func isForeignKeyViolation(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
