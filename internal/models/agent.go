package models

import "gorm.io/datatypes"

// Agent is a configured AI agent definition.
type Agent struct {
	ContentBase
	Model string     `gorm:"size:100" json:"model,omitempty" validate:"omitempty,max=100"`
	Tools StringList `json:"tools" validate:"max=50,dive,max=100"`
}

func (Agent) ContentType() ContentType { return ContentTypeAgent }

const (
	McpTransportStdio = "stdio"
	McpTransportSSE   = "sse"
	McpTransportHTTP  = "http"
)

// McpServer is a Model Context Protocol server listing.
type McpServer struct {
	ContentBase
	RepositoryURL  string         `gorm:"size:500" json:"repository_url,omitempty" validate:"omitempty,url,max=500"`
	InstallCommand string         `gorm:"size:500" json:"install_command,omitempty" validate:"omitempty,max=500"`
	Transport      string         `gorm:"size:10" json:"transport,omitempty" validate:"omitempty,oneof=stdio sse http"`
	ConfigExample  datatypes.JSON `json:"config_example,omitempty" swaggertype:"object"`
}

func (McpServer) ContentType() ContentType { return ContentTypeMcpServer }

// Tool is a third-party developer tool listing.
type Tool struct {
	ContentBase
	WebsiteURL    string `gorm:"size:500" json:"website_url,omitempty" validate:"omitempty,url,max=500"`
	RepositoryURL string `gorm:"size:500" json:"repository_url,omitempty" validate:"omitempty,url,max=500"`
	Pricing       string `gorm:"size:20" json:"pricing,omitempty" validate:"omitempty,oneof=free freemium paid open-source"`
}

func (Tool) ContentType() ContentType { return ContentTypeTool }
