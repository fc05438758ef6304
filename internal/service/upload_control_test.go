package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"json_script_analyzer/internal/domain/adaptors"
	"json_script_analyzer/internal/domain/models"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAnalysisClient is a mock implementation of the AnalysisClient interface
type MockAnalysisClient struct {
	mock.Mock
}

func (m *MockAnalysisClient) Upload(ctx context.Context, file *models.FileSelection) (*models.UploadResponse, int, error) {
	args := m.Called(ctx, file)
	resp, _ := args.Get(0).(*models.UploadResponse)
	return resp, args.Int(1), args.Error(2)
}

func jsonFile(name string) *models.FileSelection {
	content := []byte(`{"a":1}`)
	return &models.FileSelection{Name: name, ContentType: "application/json", Size: int64(len(content)), Content: content}
}

func newControl(client adaptors.AnalysisClient) *UploadControl {
	return NewUploadControl(client, 0, log.New())
}

func TestSelectRejectsNonJSON(t *testing.T) {
	client := new(MockAnalysisClient)
	u := newControl(client)

	require.NoError(t, u.Select(jsonFile("a.json")))
	require.NotNil(t, u.File())

	err := u.Select(&models.FileSelection{Name: "x.txt", ContentType: "text/plain", Size: 10, Content: make([]byte, 10)})
	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.Nil(t, u.File(), "rejected selection must clear the held file")
	require.NotNil(t, u.Notice())
	assert.Equal(t, "Please select a JSON file.", u.Notice().Text)

	assert.ErrorIs(t, u.Select(nil), ErrInvalidFileType)
	client.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestSelectRejectsOversizedFile(t *testing.T) {
	u := NewUploadControl(new(MockAnalysisClient), 4, log.New())

	err := u.Select(jsonFile("big.json"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Nil(t, u.File())
	assert.Equal(t, "File Too Large", u.Notice().Title)
}

func TestUploadWithoutFileSendsNothing(t *testing.T) {
	client := new(MockAnalysisClient)
	u := newControl(client)

	err := u.Upload(context.Background())
	assert.ErrorIs(t, err, ErrNoFileSelected)
	assert.Equal(t, "No File Selected", u.Notice().Title)
	assert.Equal(t, "Please select a file first.", u.Notice().Text)
	assert.Equal(t, StatusIdle, u.Status())
	client.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestUploadRejectedSelectionSendsNothing(t *testing.T) {
	client := new(MockAnalysisClient)
	u := newControl(client)

	require.Error(t, u.Select(&models.FileSelection{Name: "x.txt", ContentType: "text/plain", Size: 10}))
	assert.ErrorIs(t, u.Upload(context.Background()), ErrNoFileSelected)
	client.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestUploadSuccessReplacesResult(t *testing.T) {
	client := new(MockAnalysisClient)
	u := newControl(client)
	file := jsonFile("a.json")

	want := &models.AnalysisResult{Errors: []string{}, Warnings: []string{"w1"}, GoodPractices: []string{}}
	client.On("Upload", mock.Anything, mock.MatchedBy(func(f *models.FileSelection) bool {
		return f.Name == "a.json"
	})).Return(&models.UploadResponse{Analysis: want}, 200, nil).Once()

	require.NoError(t, u.Select(file))
	require.NoError(t, u.Upload(context.Background()))

	assert.Equal(t, want, u.Result())
	assert.Equal(t, StatusSucceeded, u.Status())
	assert.Equal(t, "Upload Successful", u.Notice().Title)
	assert.Equal(t, 2*time.Second, u.Notice().DisplayFor)
	assert.NotNil(t, u.File(), "the file stays selected after upload")
	client.AssertExpectations(t)
}

func TestUploadLogsFindingCounts(t *testing.T) {
	logger, hook := test.NewNullLogger()
	client := new(MockAnalysisClient)
	u := NewUploadControl(client, 0, logger)

	result := &models.AnalysisResult{Errors: []string{"e1"}, Warnings: []string{"w1", "w2"}, GoodPractices: []string{}}
	client.On("Upload", mock.Anything, mock.Anything).Return(&models.UploadResponse{Analysis: result}, 200, nil).Once()

	require.NoError(t, u.Select(jsonFile("a.json")))
	require.NoError(t, u.Upload(context.Background()))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "upload completed", entry.Message)
	assert.Equal(t, 3, entry.Data["findings"])
	assert.Equal(t, 2, entry.Data["warnings"])
}

func TestUploadFailuresLeaveResultUntouched(t *testing.T) {
	previous := &models.AnalysisResult{Errors: []string{"old"}, Warnings: []string{}, GoodPractices: []string{}}

	cases := []struct {
		name      string
		code      int
		err       error
		wantTitle string
		wantText  string
		wantCode  int
	}{
		{
			name:      "server error",
			code:      500,
			err:       &adaptors.StatusError{Code: 500},
			wantTitle: "Upload Failed",
			wantText:  "File upload failed with status: 500",
			wantCode:  500,
		},
		{
			name:      "not found",
			code:      404,
			err:       &adaptors.StatusError{Code: 404},
			wantTitle: "Upload Failed",
			wantText:  "File upload failed with status: 404",
			wantCode:  404,
		},
		{
			name:      "transport error",
			err:       errors.New("connection refused"),
			wantTitle: "Upload Error",
			wantText:  "An error occurred while uploading the file. Please try again.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, prior := range []*models.AnalysisResult{nil, previous} {
				client := new(MockAnalysisClient)
				u := newControl(client)
				u.result = prior.Clone()

				client.On("Upload", mock.Anything, mock.Anything).Return(nil, tc.code, tc.err).Once()
				require.NoError(t, u.Select(jsonFile("a.json")))

				err := u.Upload(context.Background())
				require.Error(t, err)

				var statusErr *adaptors.StatusError
				if tc.wantCode != 0 {
					require.ErrorAs(t, err, &statusErr)
					assert.Equal(t, tc.wantCode, statusErr.Code)
				}
				assert.Equal(t, prior, u.Result())
				assert.Equal(t, StatusFailed, u.Status())
				assert.Equal(t, tc.wantTitle, u.Notice().Title)
				assert.Equal(t, tc.wantText, u.Notice().Text)
				client.AssertNumberOfCalls(t, "Upload", 1)
			}
		})
	}
}

func TestUploadEmptyResponseAnalysisIsFailure(t *testing.T) {
	client := new(MockAnalysisClient)
	u := newControl(client)
	client.On("Upload", mock.Anything, mock.Anything).Return(&models.UploadResponse{}, 200, nil).Once()

	require.NoError(t, u.Select(jsonFile("a.json")))
	assert.Error(t, u.Upload(context.Background()))
	assert.Nil(t, u.Result())
	assert.Equal(t, StatusFailed, u.Status())
}

func TestUploadIgnoresSecondTriggerWhileInFlight(t *testing.T) {
	client := new(MockAnalysisClient)
	u := newControl(client)

	started := make(chan struct{})
	release := make(chan struct{})
	result := &models.AnalysisResult{Errors: []string{"e1"}, Warnings: []string{}, GoodPractices: []string{}}
	client.On("Upload", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
		}).
		Return(&models.UploadResponse{Analysis: result}, 200, nil).Once()

	require.NoError(t, u.Select(jsonFile("a.json")))

	done := make(chan error, 1)
	go func() { done <- u.Upload(context.Background()) }()

	<-started
	assert.Equal(t, StatusInFlight, u.Status())
	assert.True(t, u.Notice().Blocking)
	assert.ErrorIs(t, u.Upload(context.Background()), ErrUploadInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, result, u.Result())
	client.AssertNumberOfCalls(t, "Upload", 1)
}

func TestResultIsACopy(t *testing.T) {
	client := new(MockAnalysisClient)
	u := newControl(client)
	client.On("Upload", mock.Anything, mock.Anything).
		Return(&models.UploadResponse{Analysis: &models.AnalysisResult{Errors: []string{"e1"}, Warnings: []string{}, GoodPractices: []string{}}}, 200, nil)

	require.NoError(t, u.Select(jsonFile("a.json")))
	require.NoError(t, u.Upload(context.Background()))

	r := u.Result()
	r.Errors[0] = "mutated"
	assert.Equal(t, "e1", u.Result().Errors[0])

	snap := u.Snapshot()
	assert.Equal(t, StatusSucceeded, snap.Status)
	assert.Equal(t, "a.json", snap.File.Name)
	assert.Equal(t, "7 B", snap.File.HumanSize())
}

func TestRejectOversizedClearsSelection(t *testing.T) {
	u := NewUploadControl(new(MockAnalysisClient), 10_000_000, log.New())
	require.NoError(t, u.Select(jsonFile("a.json")))

	u.RejectOversized()
	assert.Nil(t, u.File())
	assert.Equal(t, "The selected file exceeds the limit of 10 MB.", u.Notice().Text)
}
