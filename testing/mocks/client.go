// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package mocks

import (
	"context"
	"encoding/json"
	"testing"

	gethrpc "github.com/centrifuge/go-substrate-rpc-client/v4/gethrpc"
)

type Client struct {
	CallFunc      func(result interface{}, method string, args ...interface{}) error
	SubscribeFunc func(ctx context.Context, namespace string, subscribe string, unsubscribe string, notification string, channel interface{}, args ...interface{}) (*gethrpc.ClientSubscription, error)
	URLFunc       func() string
	CloseFunc     func()
}

// BaselineClient returns a client that answers every call with a JSON null.
func BaselineClient(t *testing.T) *Client {
	t.Helper()

	c := Client{
		CallFunc: func(result interface{}, _ string, _ ...interface{}) error {
			return json.Unmarshal([]byte(`null`), result)
		},
		SubscribeFunc: func(context.Context, string, string, string, string, interface{}, ...interface{}) (*gethrpc.ClientSubscription, error) {
			return nil, GenericError
		},
		URLFunc: func() string {
			return GenericURL
		},
		CloseFunc: func() {},
	}

	return &c
}

func (c *Client) Call(result interface{}, method string, args ...interface{}) error {
	return c.CallFunc(result, method, args...)
}

func (c *Client) Subscribe(ctx context.Context, namespace string, subscribe string, unsubscribe string, notification string, channel interface{}, args ...interface{}) (*gethrpc.ClientSubscription, error) {
	return c.SubscribeFunc(ctx, namespace, subscribe, unsubscribe, notification, channel, args...)
}

func (c *Client) URL() string {
	return c.URLFunc()
}

func (c *Client) Close() {
	c.CloseFunc()
}
