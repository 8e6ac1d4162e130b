package model

import "strings"

// Role — тип аккаунта в MediCloud.
type Role string

const (
	RoleCliente    Role = "CLIENTE"
	RoleTrabajador Role = "TRABAJADOR"
	RoleAdmin      Role = "ADMIN"
)

// NormalizeRole приводит строку роли к каноническому виду (бэкенд может вернуть в нижнем регистре).
func NormalizeRole(s string) Role {
	return Role(strings.ToUpper(strings.TrimSpace(s)))
}

// IsStaff — TRABAJADOR или ADMIN.
func (r Role) IsStaff() bool {
	return r == RoleTrabajador || r == RoleAdmin
}

type TicketEstado string

const (
	EstadoAbierto   TicketEstado = "ABIERTO"
	EstadoPendiente TicketEstado = "PENDIENTE"
	EstadoEnProceso TicketEstado = "EN_PROCESO"
	EstadoResuelto  TicketEstado = "RESUELTO"
	EstadoCerrado   TicketEstado = "CERRADO"
)

type TicketPrioridad string

const (
	PrioridadBaja  TicketPrioridad = "BAJA"
	PrioridadMedia TicketPrioridad = "MEDIA"
	PrioridadAlta  TicketPrioridad = "ALTA"
)

type ArchivoEstado string

const (
	ArchivoActivo     ArchivoEstado = "ACTIVO"
	ArchivoCuarentena ArchivoEstado = "CUARENTENA"
	ArchivoEliminado  ArchivoEstado = "ELIMINADO"
)

// Cuenta — пользователь из ответа /auth/login и /me.
type Cuenta struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Ticket — тикет поддержки. Поля идентичны ответу бэкенда MediCloud.
type Ticket struct {
	ID               int64  `json:"id_ticket"`
	IDCuentaCliente  *int64 `json:"id_cuenta_cliente,omitempty"`
	IDCuentaCreador  *int64 `json:"id_cuenta_creador,omitempty"`
	IDCuentaAsignado *int64 `json:"id_cuenta_asignado,omitempty"`

	TipoTicket string `json:"tipo_ticket"`
	Prioridad  string `json:"prioridad"`
	Estado     string `json:"estado"`
	Asunto     string `json:"asunto"`

	CreadoEn      string  `json:"creado_en,omitempty"`
	ActualizadoEn string  `json:"actualizado_en,omitempty"`
	CerradoEn     *string `json:"cerrado_en,omitempty"`

	ClienteCorreo  string  `json:"cliente_correo,omitempty"`
	CreadorCorreo  string  `json:"creador_correo,omitempty"`
	AsignadoCorreo *string `json:"asignado_correo,omitempty"`

	Mensajes int `json:"mensajes,omitempty"`
}

// TicketMensaje — сообщение тикета, append-only.
type TicketMensaje struct {
	ID            int64  `json:"id_mensaje"`
	IDTicket      int64  `json:"id_ticket"`
	IDCuentaAutor int64  `json:"id_cuenta_autor"`
	Cuerpo        string `json:"cuerpo"`
	EnviadoEn     string `json:"enviado_en"`

	AutorCorreo string `json:"autor_correo,omitempty"`
	AutorTipo   string `json:"autor_tipo,omitempty"`
}

// Archivo — запись о загруженном файле пациента. Удаление мягкое (estado=ELIMINADO).
type Archivo struct {
	ID                  int64   `json:"id_archivo"`
	IDCuentaPropietaria int64   `json:"id_cuenta_propietaria"`
	IDCuentaSubidora    int64   `json:"id_cuenta_subidora"`
	NombreOriginal      string  `json:"nombre_original"`
	URIAlmacenamiento   string  `json:"uri_almacenamiento"`
	HashSHA256          *string `json:"hash_sha256"`
	Estado              string  `json:"estado_archivo"`
	TamanoBytes         int64   `json:"tamano_bytes"`
	FechaSubida         string  `json:"fecha_subida"`
}

// StaffArchivo — строка листинга файлов для hospital staff (файл + данные пациента).
type StaffArchivo struct {
	ID                int64   `json:"id_archivo"`
	NombreOriginal    string  `json:"nombre_original"`
	URIAlmacenamiento string  `json:"uri_almacenamiento"`
	HashSHA256        *string `json:"hash_sha256"`
	Estado            string  `json:"estado_archivo"`
	TamanoBytes       int64   `json:"tamano_bytes"`
	FechaSubida       string  `json:"fecha_subida"`

	PacienteID        int64  `json:"paciente_id"`
	PacienteNombre    string `json:"paciente_nombre"`
	PacienteCorreo    string `json:"paciente_correo"`
	PacienteEmpresaID int64  `json:"paciente_empresa_id"`
}

type Empresa struct {
	ID       int64  `json:"id_empresa"`
	Nombre   string `json:"nombre"`
	Estado   string `json:"estado"`
	CreadoEn string `json:"creado_en,omitempty"`
}

// EmpresaPublica — урезанный вид для формы регистрации.
type EmpresaPublica struct {
	ID     int64  `json:"id_empresa"`
	Nombre string `json:"nombre"`
}

type TrabajadorEmpresa struct {
	IDCuenta   int64  `json:"id_cuenta"`
	Correo     string `json:"correo"`
	Nombre     string `json:"nombre"`
	TipoCuenta string `json:"tipo_cuenta"`
	Estado     string `json:"estado"`
	CreadoEn   string `json:"creado_en,omitempty"`
	IDEmpresa  *int64 `json:"id_empresa,omitempty"`
}
