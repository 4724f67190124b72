package syncrun

import (
	"github.com/smallbiznis/tenantsync/internal/syncrun/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("syncrun",
	fx.Provide(repository.Provide),
)
