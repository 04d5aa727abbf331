package render

import (
	"bytes"
	"net/http"

	"go.uber.org/zap"

	"github.com/zhouzirui/navigator/backend/internal/render"
	"github.com/zhouzirui/navigator/backend/pkg/utils"
)

// RespondHTML writes rendered views as an HTML fragment.
func RespondHTML(w http.ResponseWriter, views []render.View) {
	var buf bytes.Buffer
	if err := render.WriteHTML(&buf, views); err != nil {
		zap.L().Error("failed to write html", zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "render failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
