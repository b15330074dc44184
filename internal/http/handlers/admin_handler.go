// Status and administrative handlers.
//
//   - GET  /status                  (health snapshot + audit count)
//   - POST /admin/catalog/reload    (re-read the catalog directory)
//   - POST /admin/caches/clear      (drop cached company info)
//   - GET  /admin/audit             (paginated audit log, newest first)
//
// The admin group is guarded by middleware.AdminKey in the router.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/http/middleware"
	"github.com/saboothailand/support-bot/internal/repo"
	"github.com/saboothailand/support-bot/internal/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// StatusResponse is the health snapshot plus audit figures.
type StatusResponse struct {
	domain.HealthSnapshot
	AuditCount     *int64 `json:"audit_count,omitempty"`
	LastAuditEntry string `json:"last_audit_entry,omitempty"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListAuditResponse wraps a page of audit records.
type ListAuditResponse struct {
	Records    []domain.AuditRecord `json:"records"`
	Pagination Pagination           `json:"pagination"`
}

// ClearCachesResponse acknowledges a cache clear.
type ClearCachesResponse struct {
	Cleared bool `json:"cleared"`
}

// Status godoc
// @ID          status
// @Summary     Cache and audit status
// @Tags        Status
// @Produce     json
// @Success     200  {object}  handlers.StatusResponse
// @Router      /status [get]
func (h *Handlers) Status(c *gin.Context) {
	resp := StatusResponse{HealthSnapshot: h.bot.HealthSnapshot()}
	if h.db != nil {
		count, latest, err := repo.AuditStats(c.Request.Context(), h.db)
		if err != nil {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("audit stats unavailable")
		} else {
			resp.AuditCount = &count
			if latest != nil {
				resp.LastAuditEntry = latest.UTC().Format("2006-01-02T15:04:05Z")
			}
		}
	}
	ok(c, http.StatusOK, resp)
}

// ReloadCatalog godoc
// @ID          reloadCatalog
// @Summary     Reload product catalog files
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-API-Key  header  string  false  "Admin key (required when configured)"
// @Success     200  {object}  services.ReloadResult
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid admin key"
// @Failure     500  {object}  handlers.ErrorResponse  "Reload failed"
// @Router      /admin/catalog/reload [post]
func (h *Handlers) ReloadCatalog(c *gin.Context) {
	res := h.bot.ReloadCatalog(c.Request.Context())
	if !res.Success {
		fail(c, http.StatusInternalServerError, ErrCodeReloadFailed, "failed to reload product files")
		return
	}
	ok(c, http.StatusOK, res)
}

// ClearCaches godoc
// @ID          clearCaches
// @Summary     Clear cached company information
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-API-Key  header  string  false  "Admin key (required when configured)"
// @Success     200  {object}  handlers.ClearCachesResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid admin key"
// @Router      /admin/caches/clear [post]
func (h *Handlers) ClearCaches(c *gin.Context) {
	h.bot.ClearCaches()
	ok(c, http.StatusOK, ClearCachesResponse{Cleared: true})
}

// ListAudit godoc
// @ID          listAudit
// @Summary     List audit records (paginated)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-API-Key  header  string  false  "Admin key (required when configured)"
// @Param       user_id    query  string  false  "Only this user"
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListAuditResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid admin key"
// @Failure     404  {object}  handlers.ErrorResponse  "Audit log is not stored in the database"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /admin/audit [get]
func (h *Handlers) ListAudit(c *gin.Context) {
	if h.db == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "audit log is not stored in the database")
		return
	}
	ctx := c.Request.Context()
	uid := strings.TrimSpace(c.Query("user_id"))
	p := utils.ParsePage(c.Query("page"), c.Query("page_size"), defaultPageSize, maxPageSize)

	total, err := repo.CountAudit(ctx, h.db, uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	items, err := repo.ListAuditPage(ctx, h.db, uid, p.Offset(), p.Size)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := p.TotalPages(total)
	ok(c, http.StatusOK, ListAuditResponse{
		Records: items,
		Pagination: Pagination{
			Page:       p.Number,
			PageSize:   p.Size,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    p.Number < totalPages,
		},
	})
}
