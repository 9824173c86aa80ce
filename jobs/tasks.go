package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskGLIntegrity verifies the posted ledger still balances.
	TaskGLIntegrity = "gl:integrity"
	// TaskBankRebuild recomputes cached bank balances from the transaction log.
	TaskBankRebuild = "bank:rebuild"
)

// BankRebuildPayload scopes a rebuild to one account, or all accounts
// when BankAccountID is zero.
type BankRebuildPayload struct {
	BankAccountID int64 `json:"bankAccountId"`
}

// NewGLIntegrityTask constructs the ledger integrity task.
func NewGLIntegrityTask() *asynq.Task {
	return asynq.NewTask(TaskGLIntegrity, nil)
}

// NewBankRebuildTask constructs a balance rebuild task.
func NewBankRebuildTask(payload BankRebuildPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBankRebuild, data), nil
}
