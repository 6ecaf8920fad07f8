package sockets

import "time"

func WithPingInterval(d time.Duration) func(*Conn) {
	return func(s *Conn) {
		s.pingInterval = d
	}
}

func WithPingMsg(msg []byte) func(*Conn) {
	return func(s *Conn) {
		s.pingMsg = msg
	}
}

func InsecureSkipVerify() func(*Conn) {
	return func(s *Conn) {
		s.sslSkipVerify = true
	}
}

func WithMaxMessageSize(size int64) func(*Conn) {
	return func(s *Conn) {
		s.maxMessageSize = size
	}
}

func OnMessage(f func([]byte, Connection)) func(*Conn) {
	return func(s *Conn) {
		s.onMessage = f
	}
}

func OnError(f func(error)) func(*Conn) {
	return func(s *Conn) {
		s.onError = f
	}
}

func OnConnected(f func(Connection)) func(*Conn) {
	return func(s *Conn) {
		s.onConnected = f
	}
}
