package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/undeluro/tglens/internal/cache"
	"github.com/undeluro/tglens/internal/domain"
	"github.com/undeluro/tglens/internal/pkg/config"
)

// Mock implementation for ArchiveProcessor
type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) ProcessArchive(ctx context.Context, filePath string) ([]domain.MessageRecord, error) {
	args := m.Called(ctx, filePath)
	if res := args.Get(0); res != nil {
		return res.([]domain.MessageRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func testRecord(chatID int64, chatName, chatType, from string, ts time.Time, text string) domain.MessageRecord {
	return domain.MessageRecord{
		ChatID:     chatID,
		ChatName:   chatName,
		ChatType:   chatType,
		From:       from,
		Timestamp:  ts,
		Text:       text,
		TextLength: len([]rune(text)),
		Type:       "message",
		Date:       ts.Truncate(24 * time.Hour),
		Hour:       ts.Hour(),
		Weekday:    ts.Weekday().String(),
	}
}

func testRecords() []domain.MessageRecord {
	day := func(d, h int) time.Time {
		return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC)
	}
	return []domain.MessageRecord{
		testRecord(1, "Alice", domain.ChatTypePersonal, "Alice", day(15, 9), "привет"),
		testRecord(1, "Alice", domain.ChatTypePersonal, "me", day(16, 10), "hello"),
		testRecord(2, "Work", domain.ChatTypeGroup, "Carol", day(17, 11), "meeting notes"),
	}
}

func TestServer(t *testing.T) {
	cfg := &config.Config{
		Server: config.Server{Host: "localhost", Port: 8080, MaxUploadSizeMB: 10},
		Processing: config.Processing{
			TaskTTLHours:    24,
			CacheTTLMinutes: 60,
		},
		Analysis: config.Analysis{TopWords: 10, DefaultPeriod: domain.PeriodAll},
	}
	mockProc := new(mockProcessor)
	taskStore := NewTaskStore()
	cacheStore := cache.NewCacheStore()

	srv, err := New(cfg, mockProc, taskStore, cacheStore)
	require.NoError(t, err)

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		srv.HTTPServer.Handler.ServeHTTP(rr, req)
		return rr
	}

	t.Run("Health Check", func(t *testing.T) {
		rr := serve(httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "ok", resp["status"])
	})

	t.Run("Upload Archive", func(t *testing.T) {
		var b bytes.Buffer
		writer := multipart.NewWriter(&b)
		fw, err := writer.CreateFormFile("file", "result.json")
		require.NoError(t, err)
		_, err = fw.Write([]byte(`{"chats":{"list":[]}}`))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		mockProc.On("ProcessArchive", mock.Anything, mock.AnythingOfType("string")).
			Return(testRecords(), nil).Once()

		req := httptest.NewRequest("POST", "/api/v1/archives", &b)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := serve(req)

		assert.Equal(t, http.StatusAccepted, rr.Code)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		taskID := resp["task_id"]
		require.NotEmpty(t, taskID)

		// Дожидаемся завершения фоновой горутины
		assert.Eventually(t, func() bool {
			task, err := taskStore.GetTask(taskID)
			return err == nil && task.Status == TaskStatusCompleted
		}, time.Second, 10*time.Millisecond)

		mockProc.AssertExpectations(t)
	})

	t.Run("Upload Without File Field", func(t *testing.T) {
		var b bytes.Buffer
		writer := multipart.NewWriter(&b)
		require.NoError(t, writer.Close())

		req := httptest.NewRequest("POST", "/api/v1/archives", &b)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := serve(req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Task Status Endpoint", func(t *testing.T) {
		taskID := "test-task-1"
		taskStore.CreateTask(taskID, time.Minute)

		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/"+taskID, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp map[string]interface{}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, taskID, resp["task_id"])
		assert.Equal(t, string(TaskStatusPending), resp["status"])
	})

	t.Run("Task Not Found", func(t *testing.T) {
		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/non-existent", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Overview - Task Not Completed", func(t *testing.T) {
		taskID := "pending-task"
		taskStore.CreateTask(taskID, time.Minute)

		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/"+taskID+"/overview", nil))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Overview Endpoint", func(t *testing.T) {
		taskID := "overview-task"
		taskStore.CreateTask(taskID, time.Minute)
		require.NoError(t, taskStore.UpdateTaskResult(taskID, testRecords()))

		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/"+taskID+"/overview", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp domain.Report
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 3, resp.Stats.TotalMessages)
		assert.Equal(t, 2, resp.Stats.TotalChats)
		assert.Len(t, resp.Chats, 2)
		assert.NotEmpty(t, resp.Timeline)
	})

	t.Run("Overview With Private Scope", func(t *testing.T) {
		taskID := "scope-task"
		taskStore.CreateTask(taskID, time.Minute)
		require.NoError(t, taskStore.UpdateTaskResult(taskID, testRecords()))

		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/"+taskID+"/overview?scope=private", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp domain.Report
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, 2, resp.Stats.TotalMessages, "групповой чат исключен")
		assert.Equal(t, 1, resp.Stats.TotalChats)
	})

	t.Run("Chat List Endpoint", func(t *testing.T) {
		taskID := "chats-task"
		taskStore.CreateTask(taskID, time.Minute)
		require.NoError(t, taskStore.UpdateTaskResult(taskID, testRecords()))

		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/"+taskID+"/chats", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Chats []domain.ChatSummary `json:"chats"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		require.Len(t, resp.Chats, 2)
		assert.Equal(t, "Alice", resp.Chats[0].ChatName, "чаты упорядочены по убыванию сообщений")
	})

	t.Run("Chat Report Endpoint", func(t *testing.T) {
		taskID := "chat-task"
		taskStore.CreateTask(taskID, time.Minute)
		require.NoError(t, taskStore.UpdateTaskResult(taskID, testRecords()))

		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/"+taskID+"/chats/1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp domain.ChatReport
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "Alice", resp.Summary.ChatName)
		assert.Equal(t, 2, resp.Summary.MessageCount)
		assert.Len(t, resp.Timeline, 3, "дневная шкала накрывает весь диапазон архива")
	})

	t.Run("Chat Report - Unknown Chat", func(t *testing.T) {
		taskID := "chat-missing-task"
		taskStore.CreateTask(taskID, time.Minute)
		require.NoError(t, taskStore.UpdateTaskResult(taskID, testRecords()))

		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/"+taskID+"/chats/999", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Chat Report - Bad Chat ID", func(t *testing.T) {
		taskID := "chat-bad-id-task"
		taskStore.CreateTask(taskID, time.Minute)
		require.NoError(t, taskStore.UpdateTaskResult(taskID, testRecords()))

		rr := serve(httptest.NewRequest("GET", "/api/v1/tasks/"+taskID+"/chats/abc", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
