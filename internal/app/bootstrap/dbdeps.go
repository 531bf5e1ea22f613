// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dancecollective/gigboard/internal/app/backend"
	"github.com/dancecollective/gigboard/internal/app/system/workers"
)

// DBDeps holds back-end dependencies for the app. This front end keeps no
// database of its own; all state lives behind the marketplace REST API.
type DBDeps struct {
	API   *backend.Client
	Probe *workers.BackendProbe
}
