package input

import (
	"context"
	"fmt"
	"os"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/ecosim"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/jurisdiction"
	"github.com/tsinghua-fib-lab/agentsociety-payroll-oss/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v2"
)

// Input 输入数据
// 功能：存储服务启动所需的全部税务辖区配置
// 说明：同代码的辖区以后出现者为准
type Input struct {
	Jurisdictions []config.Jurisdiction
}

// Init 加载输入数据，失败时panic
func Init(c config.Config) *Input {
	res, err := Load(context.Background(), c)
	if err != nil {
		log.Panicf("failed to load input: %v", err)
	}
	return res
}

// Load 加载输入数据
// 功能：按顺序合并各来源的辖区配置
// 参数：ctx-上下文，c-配置对象
// 返回：输入数据
// 算法说明：
// 1. 未配置辖区文件/集合且无内联辖区时，先放入内置默认辖区
// 2. 辖区来源：文件优先，否则从MongoDB集合读取
// 3. 追加配置文件中的内联辖区
// 4. 配置了经济模拟器政府快照时，将其税率表作为额外辖区追加
func Load(ctx context.Context, c config.Config) (*Input, error) {
	res := &Input{}
	if c.Input.Jurisdictions == nil && len(c.Jurisdictions) == 0 {
		log.Info("no jurisdictions configured, using built-in defaults")
		res.Jurisdictions = append(res.Jurisdictions, jurisdiction.DefaultSpecs()...)
	}

	if path := c.Input.Jurisdictions; path != nil {
		var specs []config.Jurisdiction
		var err error
		if path.File != "" {
			specs, err = loadFile(path.File)
		} else {
			specs, err = loadMongo(ctx, c.Input.URI, *path)
		}
		if err != nil {
			return nil, err
		}
		res.Jurisdictions = append(res.Jurisdictions, specs...)
	}

	res.Jurisdictions = append(res.Jurisdictions, c.Jurisdictions...)

	if eco := c.Input.Economy; eco != nil {
		if eco.Code == "" {
			return nil, fmt.Errorf("economy input requires a jurisdiction code")
		}
		gov, err := ecosim.LoadGovernment(eco.File)
		if err != nil {
			return nil, err
		}
		spec, err := ecosim.JurisdictionSpec(gov, *eco)
		if err != nil {
			return nil, fmt.Errorf("economy government %d: %w", gov.GetId(), err)
		}
		log.Infof("loaded economy government %d as jurisdiction %s", gov.GetId(), eco.Code)
		res.Jurisdictions = append(res.Jurisdictions, spec)
	}
	log.Infof("Jurisdiction: %v", len(res.Jurisdictions))
	return res, nil
}

// loadFile 从YAML文件读取辖区列表
func loadFile(file string) ([]config.Jurisdiction, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load jurisdictions from file: %w", err)
	}
	var specs []config.Jurisdiction
	if err := yaml.UnmarshalStrict(data, &specs); err != nil {
		return nil, fmt.Errorf("failed to parse jurisdictions file %s: %w", file, err)
	}
	return specs, nil
}

// loadMongo 从MongoDB集合读取辖区列表，每个文档是一个辖区
func loadMongo(ctx context.Context, uri string, path config.InputPath) ([]config.Jurisdiction, error) {
	if uri == "" {
		return nil, fmt.Errorf("input.uri is required to load jurisdictions from %s.%s", path.DB, path.Col)
	}
	client := mongoutil.NewClient(uri)
	defer client.Disconnect(context.Background())

	log.Infof("start fetching from %s.%s", path.DB, path.Col)
	coll := mongoutil.GetMongoColl(client, path)
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s.%s: %w", path.DB, path.Col, err)
	}
	var specs []config.Jurisdiction
	if err := cursor.All(ctx, &specs); err != nil {
		return nil, fmt.Errorf("failed to decode %s.%s: %w", path.DB, path.Col, err)
	}
	log.Infof("finish fetching from %s.%s", path.DB, path.Col)
	return specs, nil
}
