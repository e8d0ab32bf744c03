/*
Journal persists redemptions after they were broadcast, so request keys
survive the session and the reporter can look them up later.

Times are stored as unix seconds.
*/
package journal

import (
	"database/sql"
	"time"

	"github.com/TEENet-io/kbridge-go/agreement"
	"github.com/TEENet-io/kbridge-go/database"
	_ "github.com/mattn/go-sqlite3"
	logger "github.com/sirupsen/logrus"
)

type Journal struct {
	db        *sql.DB
	stmtCache *database.StmtCache
	now       func() time.Time
}

// NewJournal opens (or creates) the sqlite file at dbPath. ":memory:" works
// for tests.
func NewJournal(dbPath string) (*Journal, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// a memory db exists per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(redemptionTable); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{
		db:        db,
		stmtCache: database.NewStmtCache(db),
		now:       time.Now,
	}, nil
}

func (j *Journal) Close() {
	j.stmtCache.Clear()
	if err := j.db.Close(); err != nil {
		logger.Errorf("failed to close journal db: %v", err)
	}
}

func (j *Journal) Insert(e *Entry) error {
	if e.RequestKey == "" {
		return ErrEmptyRequestKey
	}
	if !validStatus(e.Status) {
		return ErrBadStatus
	}
	query := `INSERT INTO redemption (requestKey, sendingAccount, receivingAddress, amount, status, requestId, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := j.now().Unix()
	_, err := j.stmtCache.Exec(query, e.RequestKey, e.SendingAccount, e.ReceivingAddress, e.Amount, string(e.Status), e.RequestId, now, now)
	return err
}

// UpdateStatus sets the outcome of a redemption. An empty requestId keeps
// the stored one.
func (j *Journal) UpdateStatus(requestKey string, status agreement.Status, requestId string) error {
	if !validStatus(status) {
		return ErrBadStatus
	}
	query := `UPDATE redemption SET status = ?, requestId = CASE WHEN ? = '' THEN requestId ELSE ? END, updatedAt = ?
		WHERE requestKey = ?`
	res, err := j.stmtCache.Exec(query, string(status), requestId, requestId, j.now().Unix(), requestKey)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordBroadcast implements agreement.Journal.
func (j *Journal) RecordBroadcast(requestKey, account, receiver, amount string) error {
	return j.Insert(&Entry{
		RequestKey:       requestKey,
		SendingAccount:   account,
		ReceivingAddress: receiver,
		Amount:           amount,
		Status:           agreement.StatusPending,
	})
}

// RecordOutcome implements agreement.Journal.
func (j *Journal) RecordOutcome(requestKey string, status agreement.Status, requestId string) error {
	return j.UpdateStatus(requestKey, status, requestId)
}

const selectEntry = `SELECT requestKey, sendingAccount, receivingAddress, amount, status, requestId, createdAt, updatedAt FROM redemption `

// GetByRequestKey returns false when there is no such entry.
func (j *Journal) GetByRequestKey(requestKey string) (*Entry, bool, error) {
	entries, err := j.query(selectEntry+`WHERE requestKey = ?`, requestKey)
	if err != nil {
		return nil, false, err
	}
	if len(entries) == 0 {
		return nil, false, nil
	}
	return entries[0], true, nil
}

func (j *Journal) GetByStatus(status agreement.Status) ([]*Entry, error) {
	return j.query(selectEntry+`WHERE status = ? ORDER BY createdAt, requestKey`, string(status))
}

func (j *Journal) GetByAccount(account string) ([]*Entry, error) {
	return j.query(selectEntry+`WHERE sendingAccount = ? ORDER BY createdAt, requestKey`, account)
}

func (j *Journal) query(query string, args ...interface{}) ([]*Entry, error) {
	rows, err := j.stmtCache.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		e := &Entry{}
		var status string
		var created, updated int64
		if err := rows.Scan(&e.RequestKey, &e.SendingAccount, &e.ReceivingAddress, &e.Amount, &status, &e.RequestId, &created, &updated); err != nil {
			return nil, err
		}
		e.Status = agreement.Status(status)
		e.CreatedAt = time.Unix(created, 0)
		e.UpdatedAt = time.Unix(updated, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
