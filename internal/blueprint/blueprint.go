package blueprint

// Blueprint represents a render.yaml deployment manifest. A Blueprint is a
// static declaration consumed once at deploy time: nothing in this toolkit
// mutates one after parsing.
type Blueprint struct {
	Services     []Service     `yaml:"services"`
	Databases    []Database    `yaml:"databases,omitempty"`
	EnvVarGroups []EnvVarGroup `yaml:"envVarGroups,omitempty"`
	Previews     *Previews     `yaml:"previews,omitempty"`
}

type Service struct {
	Type              string   `yaml:"type"`
	Name              string   `yaml:"name"`
	Env               string   `yaml:"env,omitempty"`     // legacy runtime selector
	Runtime           string   `yaml:"runtime,omitempty"` // current runtime selector
	Plan              string   `yaml:"plan,omitempty"`
	Region            string   `yaml:"region,omitempty"`
	Repo              string   `yaml:"repo,omitempty"`
	Branch            string   `yaml:"branch,omitempty"`
	RootDir           string   `yaml:"rootDir,omitempty"`
	BuildCommand      string   `yaml:"buildCommand,omitempty"`
	StartCommand      string   `yaml:"startCommand,omitempty"`
	PreDeployCommand  string   `yaml:"preDeployCommand,omitempty"`
	Schedule          string   `yaml:"schedule,omitempty"`
	Domains           []string `yaml:"domains,omitempty"`
	HealthCheckPath   string   `yaml:"healthCheckPath,omitempty"`
	DockerfilePath    string   `yaml:"dockerfilePath,omitempty"`
	DockerContext     string   `yaml:"dockerContext,omitempty"`
	StaticPublishPath string   `yaml:"staticPublishPath,omitempty"`
	Image             *Image   `yaml:"image,omitempty"`
	Scaling           *Scaling `yaml:"scaling,omitempty"`
	NumInstances      int      `yaml:"numInstances,omitempty"`
	Disk              *Disk    `yaml:"disk,omitempty"`
	AutoDeploy        *bool    `yaml:"autoDeploy,omitempty"`
	EnvVars           []EnvVar `yaml:"envVars,omitempty"`
}

type Image struct {
	URL   string      `yaml:"url"`
	Creds *ImageCreds `yaml:"creds,omitempty"`
}

type ImageCreds struct {
	FromRegistryCreds *RegistryCred `yaml:"fromRegistryCreds,omitempty"`
}

type RegistryCred struct {
	Name string `yaml:"name"`
}

type Scaling struct {
	MinInstances        int `yaml:"minInstances"`
	MaxInstances        int `yaml:"maxInstances"`
	TargetCPUPercent    int `yaml:"targetCPUPercent,omitempty"`
	TargetMemoryPercent int `yaml:"targetMemoryPercent,omitempty"`
}

type Disk struct {
	Name      string `yaml:"name"`
	MountPath string `yaml:"mountPath"`
	SizeGB    *int   `yaml:"sizeGB,omitempty"` // nil means the platform default
}

// EnvVar declares a single environment variable. Exactly one value source
// applies: a literal value, a generated value, an out-of-band value
// (sync: false), a reference to another service or database, or a group
// include (fromGroup replaces the key entirely).
type EnvVar struct {
	Key           string          `yaml:"key,omitempty"`
	Value         string          `yaml:"value,omitempty"`
	GenerateValue bool            `yaml:"generateValue,omitempty"`
	Sync          *bool           `yaml:"sync,omitempty"`
	FromDatabase  *EnvFromDB      `yaml:"fromDatabase,omitempty"`
	FromService   *EnvFromService `yaml:"fromService,omitempty"`
	FromGroup     string          `yaml:"fromGroup,omitempty"`
}

// Synced reports whether the platform stores the variable's value itself.
// An unset sync flag defaults to true; sync: false means the value must be
// supplied out-of-band before the service can start.
func (e EnvVar) Synced() bool {
	return e.Sync == nil || *e.Sync
}

type EnvFromDB struct {
	Name     string `yaml:"name"`
	Property string `yaml:"property"`
}

type EnvFromService struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Property  string `yaml:"property,omitempty"`
	EnvVarKey string `yaml:"envVarKey,omitempty"`
}

type Database struct {
	Name                 string   `yaml:"name"`
	DatabaseName         string   `yaml:"databaseName,omitempty"`
	User                 string   `yaml:"user,omitempty"`
	Plan                 string   `yaml:"plan,omitempty"`
	Region               string   `yaml:"region,omitempty"`
	PostgresMajorVersion string   `yaml:"postgresMajorVersion,omitempty"`
	IPAllowList          []IPRule `yaml:"ipAllowList,omitempty"`
}

type IPRule struct {
	Source      string `yaml:"source"`
	Description string `yaml:"description,omitempty"`
}

type EnvVarGroup struct {
	Name    string   `yaml:"name"`
	EnvVars []EnvVar `yaml:"envVars"`
}

type Previews struct {
	Generation string `yaml:"generation,omitempty"`
}

// RuntimeSelector returns whichever of env/runtime is set, preferring the
// current runtime key.
func (s Service) RuntimeSelector() string {
	if s.Runtime != "" {
		return s.Runtime
	}
	return s.Env
}

// UsesDocker reports whether the service builds from a Dockerfile.
func (s Service) UsesDocker() bool {
	return s.RuntimeSelector() == "docker" || s.DockerfilePath != ""
}

// UsesImage reports whether the service runs a prebuilt image.
func (s Service) UsesImage() bool {
	return s.Image != nil && s.Image.URL != ""
}

// RequiredEnvVars returns the env vars that must be supplied out-of-band
// (sync: false) before the service can start.
func (s Service) RequiredEnvVars() []EnvVar {
	var required []EnvVar
	for _, ev := range s.EnvVars {
		if ev.Key != "" && !ev.Synced() && !ev.GenerateValue && ev.Value == "" {
			required = append(required, ev)
		}
	}
	return required
}
