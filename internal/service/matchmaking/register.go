package matchmaking

import (
	"google.golang.org/grpc"

	pb "github.com/oggyb/swipe-core/internal/api/matchmakingv1"
	"github.com/oggyb/swipe-core/internal/app"
	"github.com/oggyb/swipe-core/internal/cache"
	"github.com/oggyb/swipe-core/internal/matching"
)

// Registrar ties the Matchmaking service into the gRPC server
type Registrar struct {
	appCtx   *app.AppContext
	core     *matching.Service
	activity *cache.ActivityTracker
}

// NewRegistrar creates a new Registrar for the Matchmaking service.
// activity may be nil.
func NewRegistrar(appCtx *app.AppContext, core *matching.Service, activity *cache.ActivityTracker) *Registrar {
	return &Registrar{appCtx: appCtx, core: core, activity: activity}
}

// Register attaches the Matchmaking service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterMatchmakingServer(s, NewService(r.appCtx, r.core, r.activity))
}

func (r *Registrar) AdminMethods() []string { return pb.AdminMethods }
