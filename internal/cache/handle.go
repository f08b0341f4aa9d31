package cache

import (
	"github.com/accountd/accountd/internal/accountdb/model"
)

// UserHandle is a cached, disposable view of one UserRecord.
type UserHandle struct {
	*Disposable
	UID    uint32
	Record model.UserRecord
}

// GroupHandle is a cached, disposable view of one GroupRecord.
type GroupHandle struct {
	*Disposable
	GID    uint32
	Record model.GroupRecord
}
