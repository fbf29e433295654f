package assistant

import "errors"

var ErrSyncInProgress = errors.New("a sync is already running")
