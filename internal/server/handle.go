package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wx-shi/utxo-validator/internal/model"
	"github.com/wx-shi/utxo-validator/pkg"
)

func (s *Server) validateHandle() func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		var tx model.Transaction
		if err := ctx.ShouldBindJSON(&tx); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := s.validator.Validate(&tx)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"code": http.StatusInternalServerError,
				"msg":  err.Error(),
			})
		} else {
			ctx.JSON(http.StatusOK, gin.H{
				"code": http.StatusOK,
				"data": result,
			})
		}
	}
}

func (s *Server) utxoInfoHandle() func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		var req model.UTXOInfoRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		reply := make(model.UTXOInfoReply, len(req.Keys))
		for _, key := range req.Keys {
			id, err := model.ParseUtxoKey(key)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			utxo, err := s.pool.GetUTXO(id.TxID, id.Index)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{
					"code": http.StatusInternalServerError,
					"msg":  err.Error(),
				})
				return
			}
			if utxo == nil {
				reply[key] = nil
				continue
			}

			// Address rendering is best effort, unknown key forms keep
			// the raw owner only.
			address, _ := pkg.OwnerAddress(utxo.Owner)
			reply[key] = &model.UtxoDetail{
				TxID:    id.TxID,
				Index:   id.Index,
				Owner:   utxo.Owner,
				Address: address,
				Amount:  utxo.Amount.String(),
			}
		}

		ctx.JSON(http.StatusOK, gin.H{
			"code": http.StatusOK,
			"data": reply,
		})
	}
}

func (s *Server) applyHandle() func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		var req model.ApplyRequest
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := s.pool.Apply(req.Spent, req.Created, req.Height); err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"code": http.StatusInternalServerError,
				"msg":  err.Error(),
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"code": http.StatusOK,
		})
	}
}

func (s *Server) heightHandle() func(ctx *gin.Context) {
	return func(ctx *gin.Context) {

		height, err := s.pool.AppliedHeight()
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"code": http.StatusInternalServerError,
				"msg":  err.Error(),
			})
			return
		}

		ctx.JSON(http.StatusOK, gin.H{
			"code": http.StatusOK,
			"data": model.HeightReply{
				Height: height,
			},
		})
	}
}
