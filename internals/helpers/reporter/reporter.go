package reporter

import (
	"log"
	"os"

	"schoolku_backend/internals/configs"

	"github.com/rollbar/rollbar-go"
)

// Reporter ships unexpected errors to an external tracker.
type Reporter interface {
	Error(err error, extras map[string]interface{})
	Close()
}

// Default is a no-op until Init finds ROLLBAR_TOKEN.
var Default Reporter = noopReporter{}

func Init() {
	if configs.RollbarToken == "" {
		log.Println("⚠️ ROLLBAR_TOKEN non défini, rapport d'erreurs désactivé")
		return
	}
	Default = NewRollbarReporter(configs.RollbarToken, configs.AppEnv)
	log.Println("✅ Rollbar activé")
}

type noopReporter struct{}

func (noopReporter) Error(error, map[string]interface{}) {}
func (noopReporter) Close()                              {}

type RollbarReporter struct{}

func NewRollbarReporter(token, env string) *RollbarReporter {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	rollbar.SetCodeVersion(configs.GetEnv("APP_VERSION", "dev"))
	return &RollbarReporter{}
}

func (RollbarReporter) Error(err error, extras map[string]interface{}) {
	if extras == nil {
		rollbar.Error(err)
		return
	}
	rollbar.Error(err, extras)
}

func (RollbarReporter) Close() {
	rollbar.Wait()
	rollbar.Close()
}
