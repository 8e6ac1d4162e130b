package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medicloud/portal-service/internal/guard"
	"github.com/medicloud/portal-service/internal/model"
	"github.com/medicloud/portal-service/internal/shell"
)

type FileHandler struct {
	*Deps
}

func NewFiles(deps *Deps) *FileHandler {
	return &FileHandler{Deps: deps}
}

// List — файловый менеджер пациента. Фильтр на стороне портала: подстрока
// по имени/estado плюс переключатель hide_deleted (по умолчанию включён),
// скрывающий мягко удалённые записи.
func (h *FileHandler) List(c *gin.Context) {
	s := guard.FromContext(c)
	archivos, err := h.API.Files(c.Request.Context(), s.Token)
	if err != nil {
		h.listError(c, err, "archivos")
		return
	}

	q := c.Query("q")
	hideDeleted := c.DefaultQuery("hide_deleted", "true") != "false"
	visible := filterArchivos(archivos, q, hideDeleted)

	c.JSON(http.StatusOK, gin.H{
		"archivos":       visible,
		"visibles":       len(visible),
		"bytes_visibles": totalBytes(visible),
		"bytes_totales":  totalBytes(archivos),
		"total_legible":  formatBytes(totalBytes(archivos)),
		"hide_deleted":   hideDeleted,
		"q":              q,
		"nav":            shell.NavFor(s),
	})
}

// Upload принимает multipart-поле file. Только PDF, по MIME или расширению;
// всё остальное отсекается до обращения к бэкенду. После успеха — полная
// перезагрузка списка, без точечного патча.
func (h *FileHandler) Upload(c *gin.Context) {
	s := guard.FromContext(c)

	fh, err := c.FormFile("file")
	if err != nil {
		failLocal(c, "Selecciona un archivo.")
		return
	}
	contentType := fh.Header.Get("Content-Type")
	isPDF := contentType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf")
	if !isPDF {
		failLocal(c, "Solo se permite subir archivos PDF.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		failLocal(c, "No se pudo leer el archivo.")
		return
	}
	defer f.Close()

	if err := h.API.UploadFile(c.Request.Context(), s.Token, fh.Filename, f); err != nil {
		fail(c, err, "Error subiendo archivo")
		return
	}
	h.Audit.ProduceAsync("archivo_subido", map[string]interface{}{"nombre": fh.Filename})

	archivos, err := h.API.Files(c.Request.Context(), s.Token)
	if err != nil {
		h.listError(c, err, "archivos")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"mensaje":  "Archivo subido correctamente.",
		"archivos": archivos,
	})
}

// Delete — мягкое удаление: бэкенд переводит запись в ELIMINADO, строка
// остаётся. Затем полная перезагрузка списка.
func (h *FileHandler) Delete(c *gin.Context) {
	s := guard.FromContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		failLocal(c, "Archivo inválido.")
		return
	}

	if err := h.API.DeleteFile(c.Request.Context(), s.Token, id); err != nil {
		fail(c, err, "Error eliminando archivo")
		return
	}
	h.Audit.ProduceAsync("archivo_eliminado", map[string]interface{}{"id_archivo": id})

	archivos, err := h.API.Files(c.Request.Context(), s.Token)
	if err != nil {
		h.listError(c, err, "archivos")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"mensaje":  "Archivo eliminado.",
		"archivos": archivos,
	})
}

// StaffList — файлы пациентов для hospital staff. Поисковая строка q уходит
// на бэкенд как есть; фильтр hide_deleted применяется локально.
func (h *FileHandler) StaffList(c *gin.Context) {
	s := guard.FromContext(c)
	q := c.Query("q")
	rows, err := h.API.StaffFiles(c.Request.Context(), s.Token, q)
	if err != nil {
		h.listError(c, err, "archivos de pacientes")
		return
	}

	hideDeleted := c.DefaultQuery("hide_deleted", "true") != "false"
	if hideDeleted {
		kept := rows[:0]
		for _, r := range rows {
			if model.ArchivoEstado(strings.ToUpper(r.Estado)) != model.ArchivoEliminado {
				kept = append(kept, r)
			}
		}
		rows = kept
	}

	c.JSON(http.StatusOK, gin.H{
		"archivos": rows,
		"q":        q,
		"nav":      shell.NavFor(s),
	})
}

// filterArchivos — подстрочный фильтр по nombre_original и estado;
// при hideDeleted записи ELIMINADO не попадают в выдачу ни при каком q.
func filterArchivos(in []model.Archivo, q string, hideDeleted bool) []model.Archivo {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]model.Archivo, 0, len(in))
	for _, a := range in {
		estado := strings.ToUpper(a.Estado)
		if hideDeleted && model.ArchivoEstado(estado) == model.ArchivoEliminado {
			continue
		}
		if q == "" {
			out = append(out, a)
			continue
		}
		if strings.Contains(strings.ToLower(a.NombreOriginal), q) ||
			strings.Contains(strings.ToLower(a.Estado), q) {
			out = append(out, a)
		}
	}
	return out
}

func totalBytes(in []model.Archivo) int64 {
	var n int64
	for _, a := range in {
		n += a.TamanoBytes
	}
	return n
}

// formatBytes — человекочитаемый размер для шаблонов клиентов портала.
func formatBytes(bytes int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	n := float64(bytes)
	i := 0
	for n >= 1024 && i < len(units)-1 {
		n /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", bytes, units[0])
	}
	return fmt.Sprintf("%.1f %s", n, units[i])
}
