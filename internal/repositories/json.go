package repositories

import jsoniter "github.com/json-iterator/go"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type rowScanner interface {
	Scan(dest ...any) error
}
