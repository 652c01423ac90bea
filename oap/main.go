package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelvin-qin/OAP/protocol"
	"github.com/kelvin-qin/OAP/util"
)

var (
	mode         = flag.String("m", "", "whether start server or client only: s start server only, c start client only")
	configPath   = flag.String("c", "", "the yaml config path, flags override the config values")
	port         = flag.Int("p", 0, "the port which the server will listen to")
	unixSocket   = flag.String("socket", "", "the unix socket this server will listen")
	readTimeout  = flag.Int("r", 0, "the read timeout in millisecond")
	writeTimeout = flag.Int("w", 0, "the write timeout in millisecond")
	logPath      = flag.String("log", "", "the logPath path")
	demo         = flag.Bool("d", false, "whether start with a demo dataset")
	host         = flag.String("h", "localhost", "the server host")
)

func loadFlagsAndConfig() (*Config, error) {
	config := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}
	if *port != 0 {
		config.Port = *port
	}
	if *unixSocket != "" {
		config.UnixSocket = *unixSocket
	}
	if *readTimeout != 0 {
		config.ReadTimeout = *readTimeout
	}
	if *writeTimeout != 0 {
		config.WriteTimeout = *writeTimeout
	}
	if *logPath != "" {
		config.LogPath = *logPath
	}
	return config, nil
}

func main() {
	flag.Parse()
	config, err := loadFlagsAndConfig()
	if err != nil {
		fmt.Printf("err: %v\n", err)
		return
	}
	err = util.InitLogger(config.LogPath, 1024*4, time.Second, *mode == "s")
	if err != nil {
		fmt.Printf("err: %v\n", err)
		return
	}
	log := util.GetLog("main")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT)
	ctx, cancel := context.WithCancel(context.Background())
	go shutdown(sig, cancel)
	var server *protocol.SimpleServer
	if *mode == "s" || *mode == "" {
		server, err = initServer(config)
		if err != nil {
			fmt.Printf("err: %v\n", err)
			return
		}
	}
	if *mode == "c" || *mode == "" {
		initClient(ctx, config)
		cancel()
	}
	<-ctx.Done()
	if server != nil {
		server.Close()
	}
	log.InfoF("bye")
}

func shutdown(sig <-chan os.Signal, cancel context.CancelFunc) {
	select {
	case <-sig:
		cancel()
	}
}
