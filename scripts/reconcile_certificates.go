// 手动补发结业证书脚本
//
// 课程新增课时或发布新测验后，已有学员的结业状态不会自动变化。
// 此脚本对指定课程下所有有学习记录的学员重新执行结业校验，并以 YAML 输出统计结果。
//
// 用法:
//
//	go run scripts/reconcile_certificates.go -course 12 -course 15
//	go run scripts/reconcile_certificates.go -plan scripts/reconcile.yaml
//
// plan 文件格式:
//
//	courses: [12, 15]
package main

import (
	"access_edu_backend/internal/app"
	"access_edu_backend/internal/config"
	"access_edu_backend/internal/repository"
	"access_edu_backend/internal/service"
	"access_edu_backend/pkg/database"
	"access_edu_backend/pkg/logger"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type courseList []uint

func (c *courseList) String() string {
	return fmt.Sprint(*c)
}

func (c *courseList) Set(value string) error {
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid course id %q", value)
	}
	*c = append(*c, uint(id))
	return nil
}

type reconcilePlan struct {
	Courses []uint `yaml:"courses"`
}

type reconcileReport struct {
	Results []*service.ReconcileSummary `yaml:"results"`
	Failed  map[uint]string             `yaml:"failed,omitempty"`
}

func loadPlan(path string) (*reconcilePlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var plan reconcilePlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func main() {
	var courses courseList
	flag.Var(&courses, "course", "需要补发证书的课程ID，可重复指定")
	planFile := flag.String("plan", "", "YAML 格式的课程列表文件")
	configDir := flag.String("config", app.ConfigDir, "配置文件目录")
	flag.Parse()

	if *planFile != "" {
		plan, err := loadPlan(*planFile)
		if err != nil {
			log.Fatalf("读取 plan 文件失败: %v", err)
		}
		courses = append(courses, plan.Courses...)
	}
	if len(courses) == 0 {
		log.Fatal("请通过 -course 或 -plan 指定课程")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	attemptRepo := repository.NewQuizAttemptRepository(db)
	progressRepo := repository.NewLessonProgressRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)

	analytics := service.NewQuizAnalyticsService(
		attemptRepo,
		progressRepo,
		catalogRepo,
		certificateRepo,
		service.NewStorageService(cfg),
		nil,
		service.AnalyticsOptions{
			WeakTopicWindow: cfg.Analytics.WeakTopicWindow,
			RenderDocuments: cfg.Certificate.RenderDocument,
		},
	)
	certificates := service.NewCertificateService(certificateRepo, attemptRepo, progressRepo, catalogRepo, analytics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := reconcileReport{Failed: make(map[uint]string)}
	for _, courseID := range courses {
		summary, err := certificates.ReconcileCourse(ctx, courseID)
		if err != nil {
			logger.Log.Error("Reconcile failed", zap.Uint("courseID", courseID), zap.Error(err))
			report.Failed[courseID] = err.Error()
			if ctx.Err() != nil {
				break
			}
			continue
		}
		report.Results = append(report.Results, summary)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		log.Fatalf("输出结果失败: %v", err)
	}
	_ = enc.Close()

	if len(report.Failed) > 0 {
		os.Exit(1)
	}
}
