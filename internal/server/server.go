package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/undeluro/tglens/internal/cache"
	"github.com/undeluro/tglens/internal/core/services"
	"github.com/undeluro/tglens/internal/domain"
	"github.com/undeluro/tglens/internal/pkg/config"
)

// ArchiveProcessor определяет интерфейс для варианта использования, который
// превращает файл экспорта в нормализованные записи.
type ArchiveProcessor interface {
	ProcessArchive(ctx context.Context, filePath string) ([]domain.MessageRecord, error)
}

// Server представляет HTTP-сервер
type Server struct {
	HTTPServer *http.Server
	cfg        *config.Config
	taskStore  *TaskStore
	cacheStore *cache.CacheStore
	processor  ArchiveProcessor
}

// New создает новый экземпляр Server
func New(cfg *config.Config, processor ArchiveProcessor, taskStore *TaskStore, cacheStore *cache.CacheStore) (*Server, error) {
	s := &Server{
		cfg:        cfg,
		taskStore:  taskStore,
		cacheStore: cacheStore,
		processor:  processor,
	}

	chiRouter := chi.NewRouter()

	// Промежуточное ПО
	chiRouter.Use(middleware.Logger)
	chiRouter.Use(middleware.Recoverer)

	// Конечная точка для проверки работоспособности
	chiRouter.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Маршруты API
	chiRouter.Route("/api/v1", func(r chi.Router) {
		r.Post("/archives", s.handleUploadArchive)
		r.Get("/tasks/{taskID}", s.handleTaskStatus)
		r.Get("/tasks/{taskID}/overview", s.handleOverview)
		r.Get("/tasks/{taskID}/chats", s.handleChatList)
		r.Get("/tasks/{taskID}/chats/{chatID}", s.handleChatReport)
	})

	s.HTTPServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      chiRouter,
		ReadTimeout:  config.DefaultReadTimeout,
		WriteTimeout: config.DefaultWriteTimeout,
		IdleTimeout:  config.DefaultIdleTimeout,
	}

	return s, nil
}

// StartCleanup запускает тикеры очистки просроченных задач и элементов кеша.
// Тикеры останавливаются при отмене переданного контекста.
func (s *Server) StartCleanup(ctx context.Context) {
	s.taskStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)
	s.cacheStore.StartCleanupTicker(ctx, config.DefaultCleanupInterval)
}

// handleUploadArchive принимает файл экспорта и запускает асинхронную задачу
// его обработки.
func (s *Server) handleUploadArchive(w http.ResponseWriter, r *http.Request) {
	maxUploadSize := int64(s.cfg.Server.MaxUploadSizeMB) << 20

	// Разбор мультипарт-формы
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Не удалось разобрать форму", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Не удалось получить файл из формы", http.StatusBadRequest)
		return
	}
	defer file.Close()

	// Генерация уникального идентификатора задачи
	taskID := uuid.NewString()

	// Создание временного файла для хранения загруженных данных
	tempFilePath := filepath.Join(os.TempDir(), fmt.Sprintf("archive_%s.json", taskID))

	out, err := os.Create(tempFilePath)
	if err != nil {
		http.Error(w, "Не удалось создать временный файл", http.StatusInternalServerError)
		return
	}
	defer out.Close()

	written, err := io.Copy(out, file)
	if err != nil {
		http.Error(w, "Не удалось сохранить загруженный файл", http.StatusInternalServerError)
		return
	}
	slog.Info("Архив принят", "task_id", taskID, "size_bytes", written)

	// Создание задачи в хранилище
	s.taskStore.CreateTask(taskID, s.cfg.TaskTTL())

	// Запуск обработки в горутине
	go func() {
		s.taskStore.UpdateTaskStatus(taskID, TaskStatusProcessing)
		defer os.Remove(tempFilePath)

		taskCtx := context.Background()
		if s.cfg.Processing.TaskTimeoutSeconds > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(taskCtx, time.Duration(s.cfg.Processing.TaskTimeoutSeconds)*time.Second)
			defer cancel()
		}

		records, err := s.processor.ProcessArchive(taskCtx, tempFilePath)
		if err != nil {
			slog.Error("Обработка архива завершилась ошибкой", "task_id", taskID, "error", err)
			s.taskStore.UpdateTaskError(taskID, err.Error())
			return
		}

		s.taskStore.UpdateTaskResult(taskID, records)
		slog.Info("Обработка архива завершена", "task_id", taskID, "record_count", len(records))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"task_id": taskID})
}

// handleTaskStatus возвращает статус задачи обработки
func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.taskStore.GetTask(taskID)
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id":       task.ID,
		"status":        task.Status,
		"error_message": task.ErrorMessage,
	})
}

// handleOverview возвращает обзорный отчет по всему архиву задачи
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	records, ok := s.taskRecords(w, r)
	if !ok {
		return
	}

	records = applyScope(records, r.URL.Query().Get("scope"))
	records = services.FilterPeriod(records, s.periodParam(r))

	granularity := r.URL.Query().Get("granularity")
	if granularity == "" {
		granularity = domain.GranularityMonth
	}

	report := services.BuildOverviewReport(records, granularity, s.cfg.Analysis.TopWords)
	writeJSON(w, http.StatusOK, report)
}

// handleChatList возвращает строки сводки по чатам
func (s *Server) handleChatList(w http.ResponseWriter, r *http.Request) {
	records, ok := s.taskRecords(w, r)
	if !ok {
		return
	}

	records = applyScope(records, r.URL.Query().Get("scope"))
	records = services.FilterPeriod(records, s.periodParam(r))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chats": services.SummarizeChats(records),
	})
}

// handleChatReport возвращает детальный отчет по одному чату
func (s *Server) handleChatReport(w http.ResponseWriter, r *http.Request) {
	records, ok := s.taskRecords(w, r)
	if !ok {
		return
	}

	chatID, err := strconv.ParseInt(chi.URLParam(r, "chatID"), 10, 64)
	if err != nil {
		http.Error(w, "Недопустимый идентификатор чата", http.StatusBadRequest)
		return
	}

	records = services.FilterPeriod(records, s.periodParam(r))

	// Границы дневной шкалы берутся по всему архиву до фильтра по чату,
	// чтобы отчеты разных чатов накрывали один и тот же диапазон дат.
	stats := services.ComputeBasicStats(records)

	chatRecords := make([]domain.MessageRecord, 0)
	for _, rec := range records {
		if rec.ChatID == chatID {
			chatRecords = append(chatRecords, rec)
		}
	}
	if len(chatRecords) == 0 {
		http.Error(w, "Чат не найден", http.StatusNotFound)
		return
	}

	granularity := r.URL.Query().Get("granularity")
	report := services.BuildChatReport(chatRecords, stats.DateRangeStart, stats.DateRangeEnd, granularity, s.cfg.Analysis.TopWords)
	writeJSON(w, http.StatusOK, report)
}

// taskRecords извлекает записи завершенной задачи, иначе пишет ошибку в ответ
func (s *Server) taskRecords(w http.ResponseWriter, r *http.Request) ([]domain.MessageRecord, bool) {
	taskID := chi.URLParam(r, "taskID")

	task, err := s.taskStore.GetTask(taskID)
	if err != nil {
		http.Error(w, "Задача не найдена", http.StatusNotFound)
		return nil, false
	}
	if task.Status != TaskStatusCompleted {
		http.Error(w, "Задача не завершена", http.StatusConflict)
		return nil, false
	}

	return task.Records, true
}

// periodParam возвращает именованное окно из запроса или значение по умолчанию
func (s *Server) periodParam(r *http.Request) string {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = s.cfg.Analysis.DefaultPeriod
	}
	return period
}

// applyScope сужает записи до личных чатов или групп; пустой и "all"
// возвращают срез без изменений
func applyScope(records []domain.MessageRecord, scope string) []domain.MessageRecord {
	switch scope {
	case "private":
		return services.FilterPrivate(records)
	case "group":
		return services.FilterGroups(records)
	default:
		return records
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// ListenAndServe запускает HTTP-сервер
func (s *Server) ListenAndServe() error {
	return s.HTTPServer.ListenAndServe()
}

// Shutdown корректно завершает работу HTTP-сервера
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("Завершение работы HTTP-сервера")
	return s.HTTPServer.Shutdown(ctx)
}
