package audit

import (
	"context"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/spf13/afero"
	"gorm.io/gorm"

	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/repo"
)

// DBSink stores records in the audit_log table.
type DBSink struct {
	DB *gorm.DB
}

func (s DBSink) Write(ctx context.Context, rec *domain.AuditRecord) error {
	return repo.InsertAudit(ctx, s.DB, rec)
}

// FileSink appends records to one text file per day,
// save_chat_YYYY_MM_DD.txt, under Dir.
type FileSink struct {
	Fs  afero.Fs
	Dir string

	mu sync.Mutex
}

// FileName is the daily log file for rec.
func (s *FileSink) FileName(rec *domain.AuditRecord) string {
	return path.Join(s.Dir, "save_chat_"+rec.CreatedAt.Format("2006_01_02")+".txt")
}

func (s *FileSink) Write(_ context.Context, rec *domain.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Fs.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("audit dir: %w", err)
	}
	f, err := s.Fs.OpenFile(s.FileName(rec), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	_, werr := fmt.Fprintf(f, "[%s] User(%s): %s\nBot: %s\n---\n",
		rec.CreatedAt.Format("2006-01-02 15:04:05"), rec.UserID, rec.UserText, rec.BotText)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return werr
}
