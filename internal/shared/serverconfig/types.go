package serverconfig

import "time"

type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	Match      MatchConfig      `yaml:"match" mapstructure:"match"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type MongoDBConfig struct {
	URI             string `yaml:"uri" mapstructure:"uri"`
	Database        string `yaml:"database" mapstructure:"database"`
	ConnectTimeoutS int    `yaml:"connect_timeout_s" mapstructure:"connect_timeout_s"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// 存储驱动
const (
	DriverMemory  = "memory"
	DriverMongoDB = "mongodb"
	DriverMySQL   = "mysql"
)

type MatchConfig struct {
	// StoreDriver 对局状态存储：memory / mongodb
	StoreDriver string `yaml:"store_driver" mapstructure:"store_driver"`
	// LogDriver 行动日志存储：留空跟随 StoreDriver，可选 mysql
	LogDriver     string        `yaml:"log_driver" mapstructure:"log_driver"`
	AskTimeout    time.Duration `yaml:"ask_timeout" mapstructure:"ask_timeout"`
	MaxDepth      int           `yaml:"max_depth" mapstructure:"max_depth"`
	JWTSecret     string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	SnowflakeNode int64         `yaml:"snowflake_node" mapstructure:"snowflake_node"`
	// DevRoutes 开启后暴露创建对局与签发令牌的调试接口
	DevRoutes bool `yaml:"dev_routes" mapstructure:"dev_routes"`
}
