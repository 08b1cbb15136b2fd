package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/portal-imagenes/internal/application/auth"
	"github.com/jhoicas/portal-imagenes/internal/application/dto"
	"github.com/jhoicas/portal-imagenes/internal/application/reports"
	"github.com/jhoicas/portal-imagenes/internal/application/requests"
	"github.com/jhoicas/portal-imagenes/internal/application/roster"
	"github.com/jhoicas/portal-imagenes/internal/domain/content"
	"github.com/jhoicas/portal-imagenes/internal/domain/entity"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/memory"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/pdf"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/realtime"
	"github.com/jhoicas/portal-imagenes/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/portal-imagenes/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/portal-imagenes/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre almacenes en memoria
// ──────────────────────────────────────────────────────────────────────────────

const sharedPassword = "clave-compartida"

type testServer struct {
	app       *fiber.App
	requests  *memory.ImageRequestRepo
	employees *memory.EmployeeRepo
	users     *memory.UserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	hash, err := auth.HashPassword(sharedPassword, bcrypt.MinCost)
	require.NoError(t, err)

	log := zerolog.Nop()
	reqRepo := memory.NewImageRequestRepository()
	employees := memory.NewEmployeeRepository()
	users := memory.NewUserRepository()
	codec := spreadsheet.NewXLSXCodec()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(users, employees, hash, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}, log),
		Lifecycle:      requests.NewLifecycleUseCase(reqRepo, content.NewPolicy(0), nil, nil, log),
		Query:          requests.NewQueryUseCase(reqRepo, content.NewResolver(content.ExternalRedirect), log),
		Reports:        reports.NewReportsUseCase(reqRepo, codec, pdf.NewMarotoPDFGenerator(), log),
		Roster:         roster.NewRosterUseCase(employees, users, codec, log),
		JWTSecret:      testJWTSecret,
		MaxUploadBytes: content.DefaultMaxBytes,
		Log:            log,
	})
	return &testServer{app: app, requests: reqRepo, employees: employees, users: users}
}

func bearer(t *testing.T, userID, employeeID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, employeeID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (s *testServer) do(t *testing.T, req *http.Request, authHeader string) *http.Response {
	t.Helper()
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// multipartRequest arma un POST multipart con un archivo y campos de texto.
func multipartRequest(t *testing.T, target, field, fileName, contentType string, data []byte, values map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', 1, 2, 3}

func (s *testServer) uploadAs(t *testing.T, userID string) dto.UploadResponse {
	t.Helper()
	req := multipartRequest(t, "/api/images/upload", "image", "foto.png", "image/png", pngBytes,
		map[string]string{"userId": userID, "employeeId": "E100", "displayName": "Ana"})
	resp := s.do(t, req, bearer(t, userID, "E100", entity.RoleUser))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.UploadResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CreaUsuarioEnPrimerIngreso(t *testing.T) {
	s := newTestServer(t)
	_, err := s.employees.Create(context.Background(), &entity.Employee{EmployeeID: "E100", DisplayName: "Ana"})
	require.NoError(t, err)

	body := strings.NewReader(`{"employeeId":"E100","password":"` + sharedPassword + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp := s.do(t, req, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[dto.LoginResponse](t, resp)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "E100", out.User.EmployeeID)
	assert.Equal(t, entity.RoleUser, out.User.Role)

	claims, err := pkgjwt.Parse(testJWTSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
}

func TestLogin_Errores(t *testing.T) {
	s := newTestServer(t)
	_, err := s.employees.Create(context.Background(), &entity.Employee{EmployeeID: "E100", DisplayName: "Ana"})
	require.NoError(t, err)

	cases := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"contraseña incorrecta", `{"employeeId":"E100","password":"otra"}`, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"empleado inexistente", `{"employeeId":"E999","password":"` + sharedPassword + `"}`, http.StatusUnauthorized, "USER_NOT_FOUND"},
		{"campos vacíos", `{"employeeId":"","password":""}`, http.StatusBadRequest, "VALIDATION"},
		{"json inválido", `{`, http.StatusBadRequest, "INVALID_BODY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp := s.do(t, req, "")
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga y listado del usuario
// ──────────────────────────────────────────────────────────────────────────────

func TestUpload_CreaPendingYApareceEnListado(t *testing.T) {
	s := newTestServer(t)
	out := s.uploadAs(t, "u1")
	assert.NotEmpty(t, out.Request.ID)
	assert.Equal(t, entity.StatusPending, out.Request.Status)
	assert.NotNil(t, out.Request.UploadedAt)

	req := httptest.NewRequest(http.MethodGet, "/api/images/user/u1", nil)
	resp := s.do(t, req, bearer(t, "u1", "E100", entity.RoleUser))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.UserRequestListResponse](t, resp)
	require.Len(t, list.Requests, 1)
	assert.Equal(t, out.Request.ID, list.Requests[0].ID)
	assert.Equal(t, "foto.png", list.Requests[0].OriginalFileName)
}

func TestUpload_TipoNoPermitido(t *testing.T) {
	s := newTestServer(t)
	req := multipartRequest(t, "/api/images/upload", "image", "anim.gif", "image/gif", []byte{1},
		map[string]string{"displayName": "Ana"})
	resp := s.do(t, req, bearer(t, "u1", "E100", entity.RoleUser))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UPLOAD_REJECTED", decode[dto.ErrorResponse](t, resp).Code)

	all, err := s.requests.List(context.Background(), entity.ListOptions{})
	require.NoError(t, err)
	assert.Zero(t, all.Total, "un archivo rechazado no crea registros")
}

func TestUpload_SinArchivo(t *testing.T) {
	s := newTestServer(t)
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("displayName", "Ana"))
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/images/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp := s.do(t, req, bearer(t, "u1", "E100", entity.RoleUser))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_FILE", decode[dto.ErrorResponse](t, resp).Code)
}

func TestUpload_UsuarioNoPuedeCargarPorOtro(t *testing.T) {
	s := newTestServer(t)
	req := multipartRequest(t, "/api/images/upload", "image", "foto.png", "image/png", pngBytes,
		map[string]string{"userId": "u2", "employeeId": "E200", "displayName": "Luis"})
	resp := s.do(t, req, bearer(t, "u1", "E100", entity.RoleUser))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListMine_OtroUsuarioProhibido(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/images/user/u2", nil)
	resp := s.do(t, req, bearer(t, "u1", "E100", entity.RoleUser))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/images/user/u2", nil)
	resp = s.do(t, req, bearer(t, "a1", "ADM", entity.RoleAdmin))
	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin puede consultar cualquier usuario")
}

func TestImages_SinToken(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/api/images/user/u1", nil), "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Descargas
// ──────────────────────────────────────────────────────────────────────────────

func TestDownload_DevuelveBytesConHeaders(t *testing.T) {
	s := newTestServer(t)
	id := s.uploadAs(t, "u1").Request.ID
	tok := bearer(t, "u1", "E100", entity.RoleUser)

	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/api/images/download-by-id/"+id+"/original", nil), tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "foto.png")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)

	// Ruta anterior: ?type por defecto es original.
	resp = s.do(t, httptest.NewRequest(http.MethodGet, "/api/images/download/"+id, nil), tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
}

func TestDownload_Errores(t *testing.T) {
	s := newTestServer(t)
	id := s.uploadAs(t, "u1").Request.ID
	tok := bearer(t, "u1", "E100", entity.RoleUser)

	cases := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"tipo inválido", "/api/images/download-by-id/" + id + "/thumbnail", http.StatusBadRequest, "VALIDATION"},
		{"id inexistente", "/api/images/download-by-id/no-existe/original", http.StatusNotFound, "NOT_FOUND"},
		{"editado aún no cargado", "/api/images/download-by-id/" + id + "/edited", http.StatusNotFound, "CONTENT_NOT_AVAILABLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := s.do(t, httptest.NewRequest(http.MethodGet, tc.path, nil), tok)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestDownload_UsuarioNoDescargaSolicitudAjena(t *testing.T) {
	s := newTestServer(t)
	id := s.uploadAs(t, "u1").Request.ID

	for _, path := range []string{"/api/images/download-by-id/" + id + "/original", "/api/images/download/" + id} {
		resp := s.do(t, httptest.NewRequest(http.MethodGet, path, nil), bearer(t, "u2", "E200", entity.RoleUser))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		assert.Equal(t, "FORBIDDEN", decode[dto.ErrorResponse](t, resp).Code)
	}

	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/api/images/download-by-id/"+id+"/original", nil),
		bearer(t, "a1", "ADM", entity.RoleAdmin))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin descarga cualquier solicitud")
}

func TestDownload_URLExternaRedirige(t *testing.T) {
	s := newTestServer(t)
	created, err := s.requests.Create(context.Background(), &entity.ImageRequest{
		UserID: "u1", EmployeeID: "E100", DisplayName: "Ana",
		Original:   entity.Asset{FileName: "a.png", ContentType: "image/png", URL: "https://cdn.example.com/original/a.png"},
		Status:     entity.StatusPending,
		UploadedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/api/images/download-by-id/"+created.ID+"/original", nil),
		bearer(t, "u1", "E100", entity.RoleUser))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://cdn.example.com/original/a.png", resp.Header.Get("Location"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Administración
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_UserProhibido(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/requests", nil), bearer(t, "u1", "E100", entity.RoleUser))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdmin_UploadEditedCompletaUnaSolaVez(t *testing.T) {
	s := newTestServer(t)
	id := s.uploadAs(t, "u1").Request.ID
	admin := bearer(t, "a1", "ADM", entity.RoleAdmin)

	req := multipartRequest(t, "/api/admin/upload-edited/"+id, "editedImage", "foto_edit.png", "image/png", []byte{9, 9}, nil)
	resp := s.do(t, req, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.UploadResponse](t, resp)
	assert.Equal(t, entity.StatusCompleted, out.Request.Status)
	assert.NotNil(t, out.Request.CompletedAt)

	req = multipartRequest(t, "/api/admin/upload-edited/"+id, "editedImage", "otra.png", "image/png", []byte{7}, nil)
	resp = s.do(t, req, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_COMPLETED", decode[dto.ErrorResponse](t, resp).Code)

	// El editado original se conserva.
	resp = s.do(t, httptest.NewRequest(http.MethodGet, "/api/images/download-by-id/"+id+"/edited", nil), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, data)
}

func TestAdmin_UploadEditedSolicitudInexistente(t *testing.T) {
	s := newTestServer(t)
	req := multipartRequest(t, "/api/admin/upload-edited/no-existe", "editedImage", "e.png", "image/png", []byte{1}, nil)
	resp := s.do(t, req, bearer(t, "a1", "ADM", entity.RoleAdmin))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdmin_ListadoPaginado(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 7; i++ {
		s.uploadAs(t, "u1")
	}
	admin := bearer(t, "a1", "ADM", entity.RoleAdmin)

	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/requests?page=2&limit=5", nil), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.AdminRequestListResponse](t, resp)
	assert.Len(t, out.Requests, 2)
	assert.Equal(t, dto.PaginationResponse{Total: 7, Page: 2, Limit: 5, TotalPages: 2}, out.Pagination)

	// Sin parámetros: page=1, limit=5.
	resp = s.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/requests", nil), admin)
	out = decode[dto.AdminRequestListResponse](t, resp)
	assert.Len(t, out.Requests, 5)
	assert.Equal(t, 1, out.Pagination.Page)

	resp = s.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/requests?page=abc", nil), admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdmin_Exportaciones(t *testing.T) {
	s := newTestServer(t)
	s.uploadAs(t, "u1")
	admin := bearer(t, "a1", "ADM", entity.RoleAdmin)

	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/requests/export-file", nil), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, roster.XLSXContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "image_requests_export.xlsx")
	resp.Body.Close()

	resp = s.do(t, httptest.NewRequest(http.MethodGet, "/api/admin/requests/export-pdf", nil), admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestAdmin_ImportarYBorrarEmpleados(t *testing.T) {
	s := newTestServer(t)
	admin := bearer(t, "a1", "ADM", entity.RoleAdmin)
	sheet, err := spreadsheet.NewXLSXCodec().Write("Sheet1",
		[]string{"Employee ID", "Display Name"},
		[][]string{{"E100", "Ana"}, {"E200", "Luis"}})
	require.NoError(t, err)

	req := multipartRequest(t, "/api/admin/employees/import", "file", "padron.xlsx", roster.XLSXContentType, sheet, nil)
	resp := s.do(t, req, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ImportResponse](t, resp)
	assert.Equal(t, 2, out.ImportedCount)

	list, err := s.employees.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	resp = s.do(t, httptest.NewRequest(http.MethodDelete, "/api/admin/employees", nil), admin)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	list, err = s.employees.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAdmin_ImportarArchivoInvalido(t *testing.T) {
	s := newTestServer(t)
	req := multipartRequest(t, "/api/admin/users/import", "file", "x.xlsx", roster.XLSXContentType, []byte("no es excel"), nil)
	resp := s.do(t, req, bearer(t, "a1", "ADM", entity.RoleAdmin))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Health
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/health", "/api/health"} {
		resp := s.do(t, httptest.NewRequest(http.MethodGet, path, nil), "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		out := decode[dto.HealthResponse](t, resp)
		assert.Equal(t, "ok", out.Status)
		assert.NotEmpty(t, out.Timestamp)
		assert.Nil(t, out.Subscribers, "sin hub no hay conteo")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// /ws
// ──────────────────────────────────────────────────────────────────────────────

func TestWS_SoloConHub(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, httptest.NewRequest(http.MethodGet, "/ws", nil), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "en modo polling /ws no existe")

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Hub:       realtime.NewHub(0, zerolog.Nop()),
		JWTSecret: testJWTSecret,
		Log:       zerolog.Nop(),
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode, "sin handshake websocket")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	out := decode[dto.HealthResponse](t, resp)
	require.NotNil(t, out.Subscribers)
	assert.Equal(t, 0, *out.Subscribers)
}

func TestErrorHandler_CuerpoDemasiadoGrandeEs400(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Post("/x", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "UPLOAD_REJECTED", decode[dto.ErrorResponse](t, resp).Code)
}
