package store_test

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/fitmotion/form-analyzer/internal/config"
	"github.com/fitmotion/form-analyzer/internal/store"
	"github.com/fitmotion/form-analyzer/internal/store/model"
)

func TestStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Store Suite")
}

var _ = Describe("result store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		cfg.Database.Name = filepath.Join(GinkgoT().TempDir(), "results.db")

		db, err := store.InitDB(cfg)
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		Expect(s.Migrate()).To(Succeed())
		gormdb = db
	})

	AfterAll(func() {
		_ = s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM results;")
	})

	Context("upsert", func() {
		It("successfully creates a result", func() {
			result, err := s.Result().Upsert(context.TODO(), model.Result{
				JobID:          "job-1",
				VideoReference: "clip.mp4",
				Status:         model.ResultStatusCompleted,
				Activity:       "pushup",
				IsCorrect:      true,
				Report:         []byte(`{"job_id":"job-1"}`),
			})
			Expect(err).To(BeNil())
			Expect(result.JobID).To(Equal("job-1"))

			stored, err := s.Result().Get(context.TODO(), "job-1")
			Expect(err).To(BeNil())
			Expect(stored.Activity).To(Equal("pushup"))
			Expect(stored.IsCorrect).To(BeTrue())
		})

		It("fully overwrites a prior record for the same job id", func() {
			_, err := s.Result().Upsert(context.TODO(), model.Result{
				JobID:          "job-1",
				VideoReference: "clip.mp4",
				Status:         model.ResultStatusCompleted,
				Activity:       "pushup",
				IsCorrect:      true,
				Report:         []byte(`{"attempt":1}`),
			})
			Expect(err).To(BeNil())

			_, err = s.Result().Upsert(context.TODO(), model.Result{
				JobID:          "job-1",
				VideoReference: "clip.mp4",
				Status:         model.ResultStatusFailed,
				Activity:       "unknown",
				IsCorrect:      false,
				Error:          "no pose detected",
				Report:         []byte(`{"attempt":2}`),
			})
			Expect(err).To(BeNil())

			var count int64
			gormdb.Model(&model.Result{}).Count(&count)
			Expect(count).To(Equal(int64(1)))

			stored, err := s.Result().Get(context.TODO(), "job-1")
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.ResultStatusFailed))
			Expect(stored.Error).To(Equal("no pose detected"))
			Expect(string(stored.Report)).To(Equal(`{"attempt":2}`))
		})
	})

	Context("get", func() {
		It("returns not found for an unknown job id", func() {
			_, err := s.Result().Get(context.TODO(), "missing")
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("lists results newest first with a limit", func() {
			for _, id := range []string{"job-a", "job-b", "job-c"} {
				_, err := s.Result().Upsert(context.TODO(), model.Result{
					JobID:          id,
					VideoReference: "clip.mp4",
					Status:         model.ResultStatusCompleted,
					Report:         []byte(`{}`),
				})
				Expect(err).To(BeNil())
			}

			results, err := s.Result().List(context.TODO(), 2)
			Expect(err).To(BeNil())
			Expect(results).To(HaveLen(2))
		})
	})

	Context("delete", func() {
		It("removes a result and reports missing ids", func() {
			_, err := s.Result().Upsert(context.TODO(), model.Result{
				JobID:          "job-1",
				VideoReference: "clip.mp4",
				Status:         model.ResultStatusCompleted,
				Report:         []byte(`{}`),
			})
			Expect(err).To(BeNil())

			Expect(s.Result().Delete(context.TODO(), "job-1")).To(Succeed())
			Expect(s.Result().Delete(context.TODO(), "job-1")).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
