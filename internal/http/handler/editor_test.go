package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/assign/internal/http/handler"
	"basegraph.app/assign/internal/http/middleware"
	"basegraph.app/assign/internal/model"
	"basegraph.app/assign/internal/service"
)

var _ = Describe("EditorHandler", func() {
	var (
		router *gin.Engine
		svc    *mockEditorService
	)

	BeforeEach(func() {
		router = gin.New()
		svc = &mockEditorService{}
		h := handler.NewEditorHandler(svc)
		rg := router.Group("/edit-sessions", middleware.RequireUser())
		rg.POST("", h.Open)
		rg.GET("/:id", h.Get)
		rg.DELETE("/:id", h.Cancel)
		rg.POST("/:id/workspaces/toggle", h.ToggleWorkspace)
		rg.PUT("/:id/typing", h.SetTyping)
		rg.POST("/:id/save", h.Save)
		rg.POST("/:id/keydown", h.KeyDown)
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var reader *bytes.Buffer
		if body != "" {
			reader = bytes.NewBufferString(body)
		} else {
			reader = &bytes.Buffer{}
		}
		req := httptest.NewRequest(method, path, reader)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-ID", "7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Open", func() {
		It("returns 201 with the session and string ids", func() {
			svc.openFn = func(_ context.Context, params service.OpenParams) (*model.EditSession, error) {
				Expect(params.UserID).To(Equal(int64(7)))
				Expect(params.ContentType).To(Equal(model.ContentTypePrompts))
				Expect(params.ItemID).To(Equal(int64(100)))
				Expect(*params.ActiveWorkspaceID).To(Equal(int64(1)))
				return readySession(), nil
			}

			w := do(http.MethodPost, "/edit-sessions", `{"content_type":"prompts","item_id":"100","active_workspace_id":"1"}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("555"))
			Expect(resp["show_workspaces"]).To(BeTrue())
			Expect(resp["selected_workspaces"]).To(HaveLen(1))
		})

		It("returns 400 for an unknown content type", func() {
			w := do(http.MethodPost, "/edit-sessions", `{"content_type":"notes","item_id":"100"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 404 when the item is missing", func() {
			svc.openFn = func(_ context.Context, _ service.OpenParams) (*model.EditSession, error) {
				return nil, service.ErrItemNotFound
			}

			w := do(http.MethodPost, "/edit-sessions", `{"content_type":"prompts","item_id":"100"}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("returns 401 without a user", func() {
			req := httptest.NewRequest(http.MethodPost, "/edit-sessions", bytes.NewBufferString(`{}`))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Save", func() {
		It("passes the fields through and reports saved", func() {
			svc.saveFn = func(_ context.Context, userID, sessionID int64, fields json.RawMessage) (*service.SaveResult, error) {
				Expect(userID).To(Equal(int64(7)))
				Expect(sessionID).To(Equal(int64(555)))
				Expect(string(fields)).To(MatchJSON(`{"name":"New"}`))
				item := readySession().Item
				return &service.SaveResult{Status: service.SaveStatusSaved, Item: &item}, nil
			}

			w := do(http.MethodPost, "/edit-sessions/555/save", `{"fields":{"name":"New"}}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["status"]).To(Equal("saved"))
			Expect(resp).NotTo(HaveKey("session"))
		})

		It("accepts an empty body", func() {
			svc.saveFn = func(_ context.Context, _, _ int64, fields json.RawMessage) (*service.SaveResult, error) {
				Expect(fields).To(BeEmpty())
				return &service.SaveResult{Status: service.SaveStatusSuppressed, Session: readySession()}, nil
			}

			w := do(http.MethodPost, "/edit-sessions/555/save", "")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"status":"suppressed"`))
		})

		It("returns 409 for a closed session", func() {
			svc.saveFn = func(_ context.Context, _, _ int64, _ json.RawMessage) (*service.SaveResult, error) {
				return nil, service.ErrSessionClosed
			}

			w := do(http.MethodPost, "/edit-sessions/555/save", `{}`)
			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("returns 400 for invalid fields", func() {
			svc.saveFn = func(_ context.Context, _, _ int64, _ json.RawMessage) (*service.SaveResult, error) {
				return nil, model.ErrInvalidFields
			}

			w := do(http.MethodPost, "/edit-sessions/555/save", `{"fields":{"bogus":1}}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the save fails", func() {
			svc.saveFn = func(_ context.Context, _, _ int64, _ json.RawMessage) (*service.SaveResult, error) {
				return nil, errors.New("connection reset")
			}

			w := do(http.MethodPost, "/edit-sessions/555/save", `{}`)
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(ContainSubstring("failed to save item"))
		})

		It("returns 400 for a malformed session id", func() {
			w := do(http.MethodPost, "/edit-sessions/abc/save", `{}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	It("toggles a workspace", func() {
		svc.toggleWorkspaceFn = func(_ context.Context, _, _ int64, workspaceID int64) (*model.EditSession, error) {
			Expect(workspaceID).To(Equal(int64(2)))
			s := readySession()
			s.Selected = append(s.Selected, model.Workspace{ID: 2, Name: "Research"})
			return s, nil
		}

		w := do(http.MethodPost, "/edit-sessions/555/workspaces/toggle", `{"workspace_id":"2"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"id":"2"`))
	})

	It("requires the typing flag", func() {
		w := do(http.MethodPut, "/edit-sessions/555/typing", `{}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("forwards key events", func() {
		svc.handleKeyFn = func(_ context.Context, _, _ int64, key service.KeyEvent, _ json.RawMessage) (*service.SaveResult, error) {
			Expect(key).To(Equal(service.KeyEvent{Key: "Enter", Shift: true}))
			return &service.SaveResult{Status: service.SaveStatusIgnored, Session: readySession()}, nil
		}

		w := do(http.MethodPost, "/edit-sessions/555/keydown", `{"key":"Enter","shift":true}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"status":"ignored"`))
	})

	It("cancels a session", func() {
		called := false
		svc.cancelFn = func(_ context.Context, _, sessionID int64) error {
			called = true
			Expect(sessionID).To(Equal(int64(555)))
			return nil
		}

		w := do(http.MethodDelete, "/edit-sessions/555", "")

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(called).To(BeTrue())
	})

	It("returns 404 for an unknown session", func() {
		w := do(http.MethodGet, "/edit-sessions/556", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
