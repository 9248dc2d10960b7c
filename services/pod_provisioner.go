// file: services/pod_provisioner.go
package services

import (
	"PodCTF/models"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	imagetypes "github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/api/types/swarm"
	"github.com/docker/docker/client"
)

var DockerClient *client.Client

// InitDocker 初始化 Docker 客户端并检查 Swarm 状态
func InitDocker() {
	var err error
	DockerClient, err = client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		log.Fatalf("Failed to connect to Docker daemon: %v", err)
	}

	info, err := DockerClient.Info(context.Background())
	if err != nil {
		log.Fatalf("Failed to get Docker info: %v", err)
	}

	if info.Swarm.LocalNodeState != swarm.LocalNodeStateActive {
		log.Fatalf("Docker is not running in Swarm mode. Please run 'docker swarm init'.")
	}

	log.Println("Docker client initialized and connected to Swarm cluster.")
}

// encodeRegistryAuth 生成私有仓库认证串
func encodeRegistryAuth(user, pass, server string) (string, error) {
	ac := registry.AuthConfig{
		Username:      user,
		Password:      pass,
		ServerAddress: server,
	}
	b, err := json.Marshal(ac)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// ensureImage 确保 Pod 镜像在 Swarm 集群中可用
func ensureImage(ctx context.Context, ref string) error {
	var registryAuth string
	if user := os.Getenv("PODCTF_REGISTRY_USER"); user != "" {
		auth, err := encodeRegistryAuth(user,
			os.Getenv("PODCTF_REGISTRY_PASSWORD"),
			os.Getenv("PODCTF_REGISTRY_SERVER"))
		if err != nil {
			return err
		}
		registryAuth = auth
	}

	pullCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	rc, err := DockerClient.ImagePull(pullCtx, ref, imagetypes.PullOptions{
		RegistryAuth: registryAuth,
	})
	if err != nil {
		return fmt.Errorf("pull image %q: %w", ref, err)
	}
	defer rc.Close()
	_, _ = io.Copy(io.Discard, rc)
	return nil
}

// CreatePodService 在 Docker Swarm 中为一个 Pod 创建隔离环境服务
// Pod ID 通过环境变量注入容器，实例内部可以据此生成 Pod 专属内容
func CreatePodService(pod models.Pod) (string, error) {
	ctx := context.Background()
	// 使用时间戳确保服务名唯一，避免冲突
	serviceName := fmt.Sprintf("pod-%d-%d", pod.ID, time.Now().UnixNano())

	if err := ensureImage(ctx, pod.DockerImage); err != nil {
		return "", err
	}

	// 解析端口配置，形如 "80,3306"
	var portConfigs []swarm.PortConfig
	ports := strings.Split(pod.DockerPorts, ",")
	for _, p := range ports {
		if strings.TrimSpace(p) == "" {
			continue
		}
		port, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			log.Printf("Warning: Invalid port format '%s' for pod %d", p, pod.ID)
			continue
		}
		portConfigs = append(portConfigs, swarm.PortConfig{
			Protocol:    swarm.PortConfigProtocolTCP,
			TargetPort:  uint32(port),
			PublishMode: swarm.PortConfigPublishModeIngress, // 使用随机端口模式
		})
	}

	serviceSpec := swarm.ServiceSpec{
		Annotations: swarm.Annotations{
			Name: serviceName,
		},
		TaskTemplate: swarm.TaskSpec{
			ContainerSpec: &swarm.ContainerSpec{
				Image: pod.DockerImage,
				Env: []string{
					"PODCTF_POD_ID=" + strconv.FormatUint(uint64(pod.ID), 10),
				},
			},
			Resources: &swarm.ResourceRequirements{
				Limits: &swarm.Limit{
					MemoryBytes: 256 * 1024 * 1024, // 限制内存 256MB
					NanoCPUs:    500000000,         // 限制 CPU 0.5 Core
				},
			},
		},
		EndpointSpec: &swarm.EndpointSpec{
			Ports: portConfigs,
		},
	}

	createOpts := types.ServiceCreateOptions{}
	serviceResp, err := DockerClient.ServiceCreate(ctx, serviceSpec, createOpts)
	if err != nil {
		return "", err
	}

	return serviceResp.ID, nil
}

// DestroyPodService 销毁一个 Pod 服务
func DestroyPodService(serviceID string) error {
	return DockerClient.ServiceRemove(context.Background(), serviceID)
}

// GetPodServiceInfo 获取 Pod 服务信息
func GetPodServiceInfo(serviceID string) (swarm.Service, []byte, error) {
	return DockerClient.ServiceInspectWithRaw(context.Background(), serviceID, types.ServiceInspectOptions{})
}

// IsPodServiceRunning 检查 Pod 服务是否仍在运行
func IsPodServiceRunning(serviceID string) bool {
	_, _, err := GetPodServiceInfo(serviceID)
	return err == nil
}

// PodConnectionInfo 提取 Pod 服务的端口映射，返回 "目标端口" -> "节点IP:发布端口"
func PodConnectionInfo(serviceID string) (map[string]string, error) {
	serviceInfo, _, err := GetPodServiceInfo(serviceID)
	if err != nil {
		return nil, err
	}

	nodeIP := os.Getenv("PODCTF_SWARM_NODE_IP")
	if nodeIP == "" {
		nodeIP = "127.0.0.1"
	}

	connectionInfo := make(map[string]string)
	for _, port := range serviceInfo.Endpoint.Ports {
		connectionInfo[strconv.Itoa(int(port.TargetPort))] = fmt.Sprintf("%s:%d", nodeIP, port.PublishedPort)
	}
	return connectionInfo, nil
}
