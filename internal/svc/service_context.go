package svc

import (
	"crypto/tls"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/rodytech/leadgen-demo-data/internal/catalog"
	"github.com/rodytech/leadgen-demo-data/internal/config"
	"github.com/rodytech/leadgen-demo-data/internal/generator"
	"github.com/rodytech/leadgen-demo-data/internal/llm"
	"github.com/rodytech/leadgen-demo-data/internal/logger"
	"github.com/rodytech/leadgen-demo-data/internal/model"
	"github.com/rodytech/leadgen-demo-data/internal/normalizer"
	"github.com/rodytech/leadgen-demo-data/internal/pipeline"
	"github.com/rodytech/leadgen-demo-data/internal/research"
	"github.com/rodytech/leadgen-demo-data/internal/snapshot"

	"golang.org/x/net/proxy"
)

type ServiceContext struct {
	Config         *config.Config
	Catalog        *catalog.Catalog
	TransportProxy *http.Transport
	LLMClient      *llm.Client
	Source         research.Source
	Pipeline       *pipeline.Pipeline
	RunModel       *model.RunModel
}

func NewServiceContext(c *config.Config) (*ServiceContext, error) {
	// 加载行业词汇表
	cat := catalog.Default()
	if c.Generation.CatalogFile != "" {
		loaded, err := catalog.LoadFromFile(c.Generation.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("读取词汇表失败: %w", err)
		}
		cat = loaded
	}

	// 创建SOCKS5代理
	var transportProxy *http.Transport
	if c.Sock5Proxy.Enable {
		var err error
		transportProxy, err = newProxyTransport(c.Sock5Proxy)
		if err != nil {
			return nil, err
		}
	}

	svcCtx := &ServiceContext{
		Config:         c,
		Catalog:        cat,
		TransportProxy: transportProxy,
	}

	// 选择调研方式
	switch c.Research.Provider {
	case config.ProviderLLM:
		svcCtx.LLMClient = llm.NewClient(&c.LLM, c.Research.Timeout, transportProxy)
		svcCtx.Source = research.NewLLMSource(svcCtx.LLMClient, cat.DisplayName)
	case config.ProviderNone:
		svcCtx.Source = research.NoneSource{}
	default:
		svcCtx.Source = &research.ScriptSource{
			Interpreter: c.Research.Interpreter,
			Script:      c.Research.Script,
			WorkDir:     c.Research.WorkDir,
			OutputDir:   c.Research.OutputDir,
			Timeout:     c.Research.Timeout,
		}
	}

	// 打开运行记录库
	if c.Ledger.Enable {
		runModel, err := model.OpenRunModel(c.Ledger.Path)
		if err != nil {
			return nil, fmt.Errorf("打开运行记录库失败: %w", err)
		}
		svcCtx.RunModel = runModel
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	svcCtx.Pipeline = pipeline.NewPipeline(
		c.Storage.DataDir,
		c.Generation.ProspectsPerTopic,
		c.Generation.Topics,
		cat,
		svcCtx.Source,
		generator.NewGenerator(cat, rnd),
		normalizer.NewNormalizer(cat, rnd),
		snapshot.NewWriter(c.Storage.DataDir, c.Generation.Timezone, c.Location(), c.Storage.Archive),
		snapshot.NewSweeper(c.Storage.DataDir, c.Storage.RetentionDays),
	)
	return svcCtx, nil
}

// newProxyTransport 通过SOCKS5代理拨号，默认校验服务端证书
func newProxyTransport(c config.Sock5Proxy) (*http.Transport, error) {
	socks5Proxy := fmt.Sprintf("%s:%d", c.Host, c.Port)
	dialer, err := proxy.SOCKS5("tcp", socks5Proxy, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("创建SOCKS5代理失败: %w", err)
	}

	transport := &http.Transport{Dial: dialer.Dial}
	if c.InsecureSkipVerify {
		logger.Warnf("[Proxy] 已关闭代理连接的证书校验")
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return transport, nil
}

func (svcCtx *ServiceContext) Close() {
	if svcCtx.RunModel == nil {
		return
	}
	if err := svcCtx.RunModel.Close(); err != nil {
		logger.Errorf("关闭运行记录库失败, %v", err)
	}
}
