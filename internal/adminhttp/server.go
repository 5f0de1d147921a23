package adminhttp

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexaddr/getapr/internal/addrx"
	"github.com/nexaddr/getapr/internal/engine"
	"github.com/nexaddr/getapr/internal/paircache"
)

// NewRouter builds the gin engine serving /healthz, /status, /sources,
// /destinations, and /pairs against eng. It does not listen itself;
// callers choose the listen address, and nothing here restricts it to
// loopback.
func NewRouter(log *zap.Logger, eng *engine.Engine) *gin.Engine {
	log = log.Named("adminhttp")
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.Use(gin.Recovery())
	r.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	}))
	if os.Getenv("ENV") == "dev" {
		r.Use(cors.New(cors.Config{
			AllowOrigins: []string{"http://localhost:5173"},
			AllowMethods: []string{"GET"},
			MaxAge:       12 * time.Hour,
		}))
	}
	r.Use(RequestID())
	r.Use(ZapLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/status", func(c *gin.Context) {
		c.JSON(200, eng.Status())
	})

	r.GET("/sources", func(c *gin.Context) {
		c.JSON(200, stringifyAddrs(eng.Sources()))
	})

	r.GET("/destinations", func(c *gin.Context) {
		c.JSON(200, stringifyAddrs(eng.Destinations()))
	})

	r.GET("/pairs", func(c *gin.Context) {
		c.JSON(200, stringifyPairs(eng.Pairs()))
	})

	return r
}

func stringifyAddrs(addrs []addrx.Address) []string {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return out
}

// pairView is the JSON shape returned by /pairs: a flattened list rather
// than a map, since (source, destination) keys don't serialize cleanly.
type pairView struct {
	Source    string `json:"source"`
	Dest      string `json:"destination"`
	LatencyMS int    `json:"latency_ms"`
	Samples   int    `json:"samples"`
}

func stringifyPairs(entries map[paircache.Key]paircache.Entry) []pairView {
	out := make([]pairView, 0, len(entries))
	for k, v := range entries {
		out = append(out, pairView{
			Source:    k.Source.String(),
			Dest:      k.Dest.String(),
			LatencyMS: v.LatencyMS,
			Samples:   v.Samples,
		})
	}
	return out
}
