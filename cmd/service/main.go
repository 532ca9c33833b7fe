// @title        Recipe API
// @version      1.0
// @description  食譜、標籤與食材管理的後端 API 文件
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "service",
		Short: "Recipe API server",
		Long: `service 啟動食譜 API 伺服器；不帶子命令時等同 serve。

設定來自環境變數（DATABASE_URL、REDIS_ADDR、JWT_SECRET 等），未設定的項目使用內建預設值。`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// execute 執行命令並回傳 exit code
func execute(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(os.Args[1:]))
}
