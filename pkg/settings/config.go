package settings

type Config struct {
	Collector     Collector     `mapstructure:"collector"`
	Queue         Queue         `mapstructure:"queue"`
	Pipeline      Pipeline      `mapstructure:"pipeline"`
	Logger        Logger        `mapstructure:"logger"`
	Kafka         Kafka         `mapstructure:"kafka"`
	Redis         Redis         `mapstructure:"redis"`
	MongoDB       MongoDB       `mapstructure:"mongodb"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	SnowflakeNode SnowflakeNode `mapstructure:"snowflake_node"`
}

// Collector is the configuration for the HTTP ingest server
type Collector struct {
	Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"gte=0,lte=65535"`
}

// Queue is the configuration for the bounded overwrite queue
type Queue struct {
	Capacity int    `mapstructure:"capacity" validate:"required,gt=0"`
	Name     string `mapstructure:"name"`
}

// Pipeline is the configuration for the queue drain pipeline
type Pipeline struct {
	Workers       int  `mapstructure:"workers" validate:"gte=0"`
	BatchSize     int  `mapstructure:"batch_size" validate:"gte=0"`
	PollTimeout   int  `mapstructure:"poll_timeout"`   // Milliseconds
	FlushInterval int  `mapstructure:"flush_interval"` // Milliseconds
	DrainOnStop   bool `mapstructure:"drain_on_stop"`
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxSize     int    `mapstructure:"max_size"`
	Compress    bool   `mapstructure:"compress"`
}

// Kafka is the configuration for the Kafka sink
type Kafka struct {
	Brokers         []string `mapstructure:"brokers" validate:"required,min=1"`
	Topic           string   `mapstructure:"topic" validate:"required"`
	FlushFrequency  int      `mapstructure:"flush_frequency"`   // Milliseconds
	FlushBytes      int      `mapstructure:"flush_bytes"`       // Bytes
	MaxMessageBytes int      `mapstructure:"max_message_bytes"` // Bytes
	Timeout         int      `mapstructure:"timeout"`           // Seconds
	MaxRetries      int      `mapstructure:"max_retries"`       // Number of retries
	RetryBackoff    int      `mapstructure:"retry_backoff"`     // Milliseconds
	Compression     string   `mapstructure:"compression" validate:"omitempty,oneof=none gzip snappy lz4 zstd"`
}

// Redis is the configuration for the Redis stream sink
type Redis struct {
	Addrs           []string `mapstructure:"addrs" validate:"required,min=1"`
	MasterName      string   `mapstructure:"master_name"`
	Password        string   `mapstructure:"password"`
	Database        int      `mapstructure:"database"`
	Stream          string   `mapstructure:"stream" validate:"required"`
	MaxStreamLen    int64    `mapstructure:"max_stream_len"`
	PoolSize        int      `mapstructure:"pool_size"`
	MinIdleConns    int      `mapstructure:"min_idle_conns"`
	PoolTimeout     int      `mapstructure:"pool_timeout"`
	DialTimeout     int      `mapstructure:"dial_timeout"`
	ReadTimeout     int      `mapstructure:"read_timeout"`
	WriteTimeout    int      `mapstructure:"write_timeout"`
	MaxRetries      int      `mapstructure:"max_retries"`
	MaxRetryBackoff int      `mapstructure:"max_retry_backoff"`
	MinRetryBackoff int      `mapstructure:"min_retry_backoff"`
}

// MongoDB is the configuration for the MongoDB sink
type MongoDB struct {
	Host            string `mapstructure:"host" validate:"required"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	Collection      string `mapstructure:"collection" validate:"required"`
	MaxPoolSize     uint64 `mapstructure:"max_pool_size"`
	MinPoolSize     uint64 `mapstructure:"min_pool_size"`
	MaxConnIdleTime uint64 `mapstructure:"max_conn_idle_time"`
	Port            int    `mapstructure:"port"`
	Timeout         int    `mapstructure:"timeout"`
}

// Elasticsearch is the configuration for the Elasticsearch sink
type Elasticsearch struct {
	Addresses []string `mapstructure:"addresses" validate:"required,min=1"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index" validate:"required"`
}

type Snowflake struct {
	Epoch     int64 `mapstructure:"epoch"`
	Node      uint8 `mapstructure:"node"`
	Step      uint8 `mapstructure:"step"`
	TotalBits uint8 `mapstructure:"total_bits"`
}

type SnowflakeNode struct {
	Config   Snowflake
	WorkerID int64 `mapstructure:"worker_id"`
}
