package email

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"onversed_backend/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Встроенные шаблоны; файлы <NAME>.html из templates_dir их переопределяют
var builtinTemplates = map[string]string{
	TemplateCode: `<p>Hello {{.full_name}},</p>
<p>Your Onversed verification code is: <b>{{.code}}</b></p>`,

	TemplateEmployeeInvite: `<p>Hello {{.full_name}},</p>
<p>You have been invited to join <b>{{.company_name}}</b> on Onversed.</p>`,

	TemplateWelcomeTeam: `<p>Welcome to the {{.company_name}} team, {{.full_name}}!</p>
<p>Your temporary password is: <b>{{.password}}</b></p>
<p><a href="{{.url}}">Sign in</a></p>`,

	TemplateResetPassword: `<p>We received a request to reset your password.</p>
<p><a href="{{.url}}">Change password</a></p>`,

	TemplateWelcome: `<p>Welcome to Onversed, {{.full_name}}!</p>`,
}

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range builtinTemplates {
		// встроенные шаблоны статичны, ошибка парсинга - баг
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// LoadTemplates загружает шаблоны из директории
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		return tm.loadFile(path)
	})
}

func (tm *TemplateManager) loadFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", path, err)
	}

	templateName := strings.TrimSuffix(filepath.Base(path), ".html")
	if err := tm.AddTemplate(templateName, string(content)); err != nil {
		return fmt.Errorf("failed to add template %s: %w", templateName, err)
	}
	return nil
}

// Watch перечитывает измененные шаблоны до отмены ctx (только для development)
func (tm *TemplateManager) Watch(ctx context.Context, dirPath string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dirPath); err != nil {
		return err
	}
	logger.Info("Watching email templates", "dir", dirPath)

	// простой debounce: редакторы пишут файл в несколько событий
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".html") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				pending[ev.Name] = time.Now()
			}
		case <-ticker.C:
			now := time.Now()
			for name, t := range pending {
				if now.Sub(t) < 200*time.Millisecond {
					continue
				}
				delete(pending, name)
				if err := tm.loadFile(name); err != nil {
					logger.Warn("Failed to reload email template", "file", name, "error", err)
					continue
				}
				logger.Info("Email template reloaded", "file", name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Template watcher error", "error", err)
		}
	}
}

// TemplateNames возвращает список имен загруженных шаблонов
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}

	return names
}
