package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/medicloud/portal-service/internal/model"
)

// Client — тонкая обёртка над REST бэкендом MediCloud: один метод на эндпоинт.
// Без ретраев, без кэша (только cache-buster ts на списках), без дедупликации.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// APIError — ошибка бэкенда. Status 0 означает транспортную ошибку
// (бэкенд недоступен), как status 0 у XHR в браузере.
type APIError struct {
	Status  int
	Message string

	// BloqueoHasta заполняется на 423 (временная блокировка аккаунта).
	BloqueoHasta string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "backend unreachable: " + e.Message
	}
	return fmt.Sprintf("backend HTTP %d: %s", e.Status, e.Message)
}

// StatusOf возвращает HTTP-статус, если err — *APIError (0 для транспортных, -1 иначе).
func StatusOf(err error) int {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Status
	}
	return -1
}

type errorBody struct {
	Error        string `json:"error"`
	Detail       string `json:"detail"`
	BloqueoHasta string `json:"bloqueo_hasta"`
}

// doJSON выполняет запрос и декодирует 2xx-ответ в out (если out != nil).
// Любой не-2xx превращается в *APIError с сообщением бэкенда из полей
// error/detail либо запасным "HTTP <status>".
func (c *Client) doJSON(ctx context.Context, method, path, token string, cacheBust bool, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: new request %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, token, cacheBust, out)
}

func (c *Client) send(req *http.Request, token string, cacheBust bool, out interface{}) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cacheBust {
		q := req.URL.Query()
		q.Set("ts", strconv.FormatInt(time.Now().UnixMilli(), 10))
		req.URL.RawQuery = q.Encode()
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Error
		if msg == "" {
			msg = eb.Detail
		}
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg, BloqueoHasta: eb.BloqueoHasta}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

/* ===== Auth ===== */

// LoginResponse — ответ /auth/login и /auth/register.
type LoginResponse struct {
	Token string       `json:"token"`
	User  model.Cuenta `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var out LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", "", false,
		map[string]string{"email": email, "password": password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterPayload — регистрация пациента. Прикрепляется к empresa по id.
type RegisterPayload struct {
	Correo    string `json:"correo"`
	Nombre    string `json:"nombre"`
	IDEmpresa int64  `json:"id_empresa"`
	Password  string `json:"password"`
}

func (c *Client) Register(ctx context.Context, p RegisterPayload) (*LoginResponse, error) {
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", "", false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context, token string) (*model.Cuenta, error) {
	var out model.Cuenta
	if err := c.doJSON(ctx, http.MethodGet, "/me", token, false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/* ===== Files ===== */

func (c *Client) Files(ctx context.Context, token string) ([]model.Archivo, error) {
	var out []model.Archivo
	if err := c.doJSON(ctx, http.MethodGet, "/files", token, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadFile шлёт multipart с единственным полем file. Проверка "только PDF"
// делается на уровне экрана до вызова.
func (c *Client) UploadFile(ctx context.Context, token, filename string, content io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("backend: multipart: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("backend: multipart copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("backend: multipart close: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", &buf)
	if err != nil {
		return fmt.Errorf("backend: new request upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, token, false, nil)
}

func (c *Client) DeleteFile(ctx context.Context, token string, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/files/"+strconv.FormatInt(id, 10), token, false, nil, nil)
}

func (c *Client) StaffFiles(ctx context.Context, token, q string) ([]model.StaffArchivo, error) {
	var out []model.StaffArchivo
	path := "/staff/files?q=" + url.QueryEscape(q)
	if err := c.doJSON(ctx, http.MethodGet, path, token, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

/* ===== Tickets ===== */

func (c *Client) Tickets(ctx context.Context, token string) ([]model.Ticket, error) {
	var out []model.Ticket
	if err := c.doJSON(ctx, http.MethodGet, "/tickets", token, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TicketDetail — тикет вместе с полным списком сообщений.
type TicketDetail struct {
	Ticket   model.Ticket          `json:"ticket"`
	Mensajes []model.TicketMensaje `json:"mensajes"`
}

func (c *Client) TicketDetail(ctx context.Context, token string, id int64) (*TicketDetail, error) {
	var out TicketDetail
	path := "/tickets/" + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, http.MethodGet, path, token, true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TicketCreate — создание тикета. Prioridad создатель не выбирает.
type TicketCreate struct {
	Asunto       string  `json:"asunto"`
	Descripcion  string  `json:"descripcion,omitempty"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

func (c *Client) CreateTicket(ctx context.Context, token string, p TicketCreate) (int64, error) {
	var out struct {
		OK       bool  `json:"ok"`
		IDTicket int64 `json:"id_ticket"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/tickets", token, false, p, &out); err != nil {
		return 0, err
	}
	return out.IDTicket, nil
}

func (c *Client) AddTicketMessage(ctx context.Context, token string, id int64, cuerpo string) error {
	path := "/tickets/" + strconv.FormatInt(id, 10) + "/messages"
	return c.doJSON(ctx, http.MethodPost, path, token, false,
		map[string]string{"cuerpo": cuerpo}, nil)
}

// TicketUpdate — частичное обновление. AsignarAMi — флаг намерения:
// "меня" бэкенд резолвит сам из токена.
type TicketUpdate struct {
	Estado     *string `json:"estado,omitempty"`
	AsignarAMi bool    `json:"asignar_a_mi,omitempty"`
	Prioridad  *string `json:"prioridad,omitempty"`
}

func (c *Client) UpdateTicket(ctx context.Context, token string, id int64, p TicketUpdate) error {
	path := "/tickets/" + strconv.FormatInt(id, 10)
	return c.doJSON(ctx, http.MethodPatch, path, token, false, p, nil)
}

/* ===== Empresas / Admin ===== */

func (c *Client) EmpresasPublicas(ctx context.Context) ([]model.EmpresaPublica, error) {
	var out []model.EmpresaPublica
	if err := c.doJSON(ctx, http.MethodGet, "/empresas/public", "", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminEmpresas(ctx context.Context, token string) ([]model.Empresa, error) {
	var out []model.Empresa
	if err := c.doJSON(ctx, http.MethodGet, "/admin/empresas", token, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AdminEmpresaTrabajadores(ctx context.Context, token string, idEmpresa int64) ([]model.TrabajadorEmpresa, error) {
	var out []model.TrabajadorEmpresa
	path := "/admin/empresas/" + strconv.FormatInt(idEmpresa, 10) + "/trabajadores"
	if err := c.doJSON(ctx, http.MethodGet, path, token, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

/* ===== Contacto ===== */

// SendContact — публичная форма контакта, без токена. ts добавляется и тут:
// прокси между порталом и бэкендом иногда кэшируют POST-ответы.
func (c *Client) SendContact(ctx context.Context, correo, mensaje string) error {
	return c.doJSON(ctx, http.MethodPost, "/contact", "", true,
		map[string]string{"correo": correo, "mensaje": mensaje}, nil)
}
