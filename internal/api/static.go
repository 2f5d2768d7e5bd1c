package api

import (
	"embed"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Embedded status page assets under internal/api/dist/browser/.
//
//go:embed dist/browser/*
var embeddedUI embed.FS

func getEmbedFS() static.ServeFileSystem {
	return static.EmbedFolder(embeddedUI, "dist/browser")
}

// MountStatusPage serves the embedded status page at the root path. API
// routes are untouched; unknown non-API paths fall back to index.html.
func MountStatusPage(r *gin.Engine, logger *slog.Logger) {
	distFS := getEmbedFS()
	r.Use(static.Serve("/", distFS))

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.RequestURI, "/api") || strings.HasPrefix(c.Request.RequestURI, "/swagger") {
			return
		}
		index, err := distFS.Open("index.html")
		if err != nil {
			if logger != nil {
				logger.Error("failed to open index.html", "error", err)
			}
			return
		}
		defer index.Close()
		stat, _ := index.Stat()
		http.ServeContent(c.Writer, c.Request, "index.html", stat.ModTime(), index)
	})
}
