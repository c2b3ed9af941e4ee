package http

import (
	"net/http"

	"github.com/quantumauth-io/quantum-go-utils/log"

	"github.com/quantumauth-io/quantum-wallet/internal/settings"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		writeJSON(w, http.StatusOK, s.settings.Get(r.Context()))
		return
	}

	var patch settings.Patch
	if !decodeJSONBody(w, r, &patch) {
		return
	}

	next, err := s.settings.Update(r.Context(), patch)
	if err != nil {
		log.Error("settings update failed", "error", err)
		writeError(w, http.StatusInternalServerError, SettingsSaveFailedText)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleSettingsReset(w http.ResponseWriter, r *http.Request) {
	def, err := s.settings.Reset(r.Context())
	if err != nil {
		log.Error("settings reset failed", "error", err)
		writeError(w, http.StatusInternalServerError, SettingsSaveFailedText)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleThemeCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Theme", s.sheet.Theme())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.sheet.CSS()))
}
