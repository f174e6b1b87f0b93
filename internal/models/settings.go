package models

// Namespace is the settings-store object that holds every field below.
const Namespace = "s3-uploads"

// Persisted field names.
const (
	FieldAccessKeyID     = "accessKeyId"
	FieldSecretAccessKey = "secretAccessKey"
	FieldBucket          = "bucket"
	FieldHost            = "host"
	FieldPath            = "path"
	FieldRegion          = "region"
)

// SettingFields is the fixed key set fetched on every refresh.
var SettingFields = []string{
	FieldAccessKeyID,
	FieldSecretAccessKey,
	FieldBucket,
	FieldHost,
	FieldPath,
	FieldRegion,
}

// Settings is an immutable snapshot of the effective configuration.
// An empty credential means "not configured"; the FromStore flags record
// whether the value came from the settings store.
type Settings struct {
	AccessKeyID              string
	SecretAccessKey          string
	AccessKeyIDFromStore     bool
	SecretAccessKeyFromStore bool

	Bucket string
	Host   string
	Path   string
	Region string
}

// HasCredentials is true only when both halves of the key pair are set.
func (s *Settings) HasCredentials() bool {
	return s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// AdminView is the data rendered on the settings page.
type AdminView struct {
	Bucket          string `json:"bucket"`
	Host            string `json:"host"`
	Path            string `json:"path"`
	Region          string `json:"region"`
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	CSRF            string `json:"csrf"`
}

// NewAdminView redacts credentials that did not come from the store.
func NewAdminView(s *Settings, csrf string) AdminView {
	view := AdminView{
		Bucket: s.Bucket,
		Host:   s.Host,
		Path:   s.Path,
		Region: s.Region,
		CSRF:   csrf,
	}
	if s.AccessKeyIDFromStore {
		view.AccessKeyID = s.AccessKeyID
	}
	if s.SecretAccessKeyFromStore {
		view.SecretAccessKey = s.SecretAccessKey
	}
	return view
}

// S3SettingsRequest is the body of POST .../s3settings. Missing fields
// persist as empty strings.
type S3SettingsRequest struct {
	Bucket string `json:"bucket" form:"bucket"`
	Host   string `json:"host" form:"host"`
	Path   string `json:"path" form:"path"`
	Region string `json:"region" form:"region"`
}

func (r S3SettingsRequest) Fields() map[string]string {
	return map[string]string{
		FieldBucket: r.Bucket,
		FieldHost:   r.Host,
		FieldPath:   r.Path,
		FieldRegion: r.Region,
	}
}

// CredentialsRequest is the body of POST .../credentials.
type CredentialsRequest struct {
	AccessKeyID     string `json:"accessKeyId" form:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey" form:"secretAccessKey"`
}

func (r CredentialsRequest) Fields() map[string]string {
	return map[string]string{
		FieldAccessKeyID:     r.AccessKeyID,
		FieldSecretAccessKey: r.SecretAccessKey,
	}
}
