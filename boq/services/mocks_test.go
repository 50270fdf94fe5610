package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"testing"

	"boq-analysis-backend/config"
	"boq-analysis-backend/db/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop()
	os.Exit(m.Run())
}

// mockProjectRepository is an in-memory ProjectRepository for service tests.
type mockProjectRepository struct {
	projects map[uuid.UUID]*models.Project
}

func newMockProjectRepository(projects ...*models.Project) *mockProjectRepository {
	repo := &mockProjectRepository{projects: make(map[uuid.UUID]*models.Project)}
	for _, p := range projects {
		repo.projects[p.ID] = p
	}
	return repo
}

func (m *mockProjectRepository) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	m.projects[project.ID] = project
	return project, nil
}

func (m *mockProjectRepository) GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return nil, nil
	}
	return project, nil
}

func (m *mockProjectRepository) GetFilteredProjects(pageSize int, offset int, filters map[string]string) ([]models.Project, int64, error) {
	var out []models.Project
	for _, p := range m.projects {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockProjectRepository) ListProcessedProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	for _, p := range m.projects {
		if p.Status == models.ProcessedStatus {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockProjectRepository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepository) LogEmailSent(emailLog *models.EmailLog) error {
	return nil
}

// mockLineItemRepository records replace calls and serves canned lists.
type mockLineItemRepository struct {
	replaceCalls    int
	storedItems     []*models.LineItem
	storedErrors    []models.IngestionError
	storedTotalCost decimal.Decimal

	byLevel    map[int][]*models.LineItem
	children   []*models.LineItem
	replaceErr error
}

func newMockLineItemRepository() *mockLineItemRepository {
	return &mockLineItemRepository{byLevel: make(map[int][]*models.LineItem)}
}

func (m *mockLineItemRepository) ReplaceProjectData(
	ctx context.Context,
	projectID uuid.UUID,
	items []*models.LineItem,
	ingestionErrors []models.IngestionError,
	totalCost decimal.Decimal,
) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaceCalls++
	m.storedItems = items
	m.storedErrors = ingestionErrors
	m.storedTotalCost = totalCost
	return nil
}

func (m *mockLineItemRepository) ListForProject(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error) {
	return m.storedItems, nil
}

func (m *mockLineItemRepository) ListForProjectPaginated(ctx context.Context, projectID uuid.UUID, pageSize, offset int) ([]*models.LineItem, int64, error) {
	return m.storedItems, int64(len(m.storedItems)), nil
}

func (m *mockLineItemRepository) ListByWbsLevel(ctx context.Context, projectID uuid.UUID, level int) ([]*models.LineItem, error) {
	return m.byLevel[level], nil
}

func (m *mockLineItemRepository) ListDirectChildren(ctx context.Context, projectID uuid.UUID, level int, parentCode string) ([]*models.LineItem, error) {
	return m.children, nil
}

func (m *mockLineItemRepository) ListParetoCritical(ctx context.Context, projectID uuid.UUID) ([]*models.LineItem, error) {
	var out []*models.LineItem
	for _, item := range m.storedItems {
		if item.IsParetoCritical {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockLineItemRepository) ListIngestionErrors(ctx context.Context, projectID uuid.UUID) ([]models.IngestionError, error) {
	return m.storedErrors, nil
}

// mockFileStorage serves one fixed payload for any path.
type mockFileStorage struct {
	content     []byte
	downloadErr error
}

func (m *mockFileStorage) UploadFile(file multipart.File, fileName string) (string, error) {
	return fileName, nil
}

func (m *mockFileStorage) UploadFileFromReader(src io.Reader, fileName string) (string, error) {
	return fileName, nil
}

func (m *mockFileStorage) DownloadFile(filePath string) (io.ReadCloser, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return io.NopCloser(bytes.NewReader(m.content)), nil
}

func (m *mockFileStorage) DeleteFile(filePath string) error {
	return nil
}

func (m *mockFileStorage) FileExists(filePath string) (bool, error) {
	return m.content != nil, nil
}

var errDownloadFailed = errors.New("download failed")

func newDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
